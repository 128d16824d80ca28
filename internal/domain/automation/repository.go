package automation

import (
	"context"

	"custodia-server/services/ledger-api/internal/domain/event"
)

// Repository exposes data access for Automation records. Mutations commit
// the record change and the event append atomically.
type Repository interface {
	Create(ctx context.Context, record *Automation, evt *event.Event) error
	Update(ctx context.Context, record *Automation, evt *event.Event) error
	GetByID(ctx context.Context, id string) (*Automation, error)
}
