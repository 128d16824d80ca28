package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger-API Metrics
var (
	// Mutation counters per record type and operation
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custodia",
			Subsystem: "ledger_api",
			Name:      "mutations_total",
			Help:      "Total record mutations by record type, operation and outcome",
		},
		[]string{"record_type", "operation", "status"},
	)

	// Events appended to the ledger stream
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custodia",
			Subsystem: "ledger_api",
			Name:      "events_total",
			Help:      "Total ledger events emitted by kind",
		},
		[]string{"kind"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "custodia",
			Subsystem: "ledger_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Webhook delivery counter
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custodia",
			Subsystem: "ledger_api",
			Name:      "webhook_deliveries_total",
			Help:      "Total webhook event deliveries by outcome",
		},
		[]string{"status"},
	)
)

// RecordMutation records a mutation attempt outcome
func RecordMutation(recordType, operation, status string) {
	MutationsTotal.WithLabelValues(recordType, operation, status).Inc()
}

// RecordEvent records an emitted ledger event
func RecordEvent(kind string) {
	EventsTotal.WithLabelValues(kind).Inc()
}

// RecordRequest records an HTTP request duration
func RecordRequest(method, endpoint string, durationSec float64) {
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordWebhookDelivery records a webhook delivery outcome
func RecordWebhookDelivery(status string) {
	WebhookDeliveriesTotal.WithLabelValues(status).Inc()
}
