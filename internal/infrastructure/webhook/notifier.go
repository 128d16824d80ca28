package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/config"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/infrastructure/metrics"
)

// Notifier mirrors committed ledger events to an external HTTP sink.
// Delivery is best-effort: the mutation already committed by the time
// Notify runs, so failures are logged and counted but never surfaced.
type Notifier struct {
	client *resty.Client
	url    string
	log    zerolog.Logger
}

// NewNotifier builds the notifier, or a nil-safe no-op when no sink URL is
// configured.
func NewNotifier(cfg *config.Config, log zerolog.Logger) event.Notifier {
	if cfg.EventWebhookURL == "" {
		return event.NopNotifier{}
	}

	client := resty.New().
		SetTimeout(cfg.EventWebhookTimeout).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "custodia-ledger-api/1.0")

	return &Notifier{
		client: client,
		url:    cfg.EventWebhookURL,
		log:    log.With().Str("component", "webhook").Logger(),
	}
}

// Notify posts the event to the sink.
func (n *Notifier) Notify(ctx context.Context, evt *event.Event) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("X-Ledger-Event", string(evt.Kind)).
		SetHeader("X-Ledger-Event-ID", evt.ID).
		SetBody(evt).
		Post(n.url)
	if err != nil {
		metrics.RecordWebhookDelivery("error")
		n.log.Warn().Err(err).Str("event_id", evt.ID).Str("kind", string(evt.Kind)).
			Msg("webhook delivery failed")
		return
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		metrics.RecordWebhookDelivery("rejected")
		n.log.Warn().Int("status", resp.StatusCode()).Str("event_id", evt.ID).
			Str("kind", string(evt.Kind)).Msg("webhook sink rejected event")
		return
	}
	metrics.RecordWebhookDelivery("delivered")
	n.log.Debug().Str("event_id", evt.ID).Str("kind", string(evt.Kind)).
		Msg("webhook delivered")
}
