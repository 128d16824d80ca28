package identity

import (
	"context"

	"custodia-server/services/ledger-api/internal/domain/event"
)

// Repository exposes data access for Identity records. Mutating calls
// persist the record and append the given event in one atomic unit; neither
// is visible unless both commit.
type Repository interface {
	Create(ctx context.Context, record *Identity, evt *event.Event) error
	Update(ctx context.Context, record *Identity, evt *event.Event) error
	GetByID(ctx context.Context, id string) (*Identity, error)
}
