package portfolio

import (
	"context"

	"custodia-server/services/ledger-api/internal/domain/event"
)

// Repository exposes data access for Portfolio records and their ordered
// indices. AddEntry persists the new index slot, the bumped count and the
// event in one atomic unit.
type Repository interface {
	Create(ctx context.Context, record *Portfolio, evt *event.Event) error
	GetByID(ctx context.Context, id string) (*Portfolio, error)
	GetByIdentity(ctx context.Context, identityID string) (*Portfolio, error)
	AddEntry(ctx context.Context, record *Portfolio, entry Entry, evt *event.Event) error
	ListEntries(ctx context.Context, portfolioID string, category Category) ([]Entry, error)
}
