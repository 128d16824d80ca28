package portfolio

import (
	"context"
	"sync"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/portfolio"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository for the memory backend and
// tests. Head mutation, entry insert and event append happen under one lock,
// mirroring the postgres transaction boundary.
type InMemoryRepository struct {
	mu         sync.RWMutex
	records    map[string]domain.Portfolio
	byIdentity map[string]string
	entries    map[string][]domain.Entry
	log        *eventlog.InMemoryLog
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository(log *eventlog.InMemoryLog) *InMemoryRepository {
	return &InMemoryRepository{
		records:    make(map[string]domain.Portfolio),
		byIdentity: make(map[string]string),
		entries:    make(map[string][]domain.Entry),
		log:        log,
	}
}

// Create stores the portfolio and appends its event.
func (r *InMemoryRepository) Create(ctx context.Context, record *domain.Portfolio, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "portfolio already exists", nil,
			"portfolio-mem-create-001")
	}
	if _, exists := r.byIdentity[record.IdentityID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "identity already has a portfolio", nil,
			"portfolio-mem-create-002")
	}
	r.records[record.ID] = *record
	r.byIdentity[record.IdentityID] = record.ID
	r.log.Append(evt)
	return nil
}

// GetByID fetches a portfolio by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "portfolio not found", nil,
			"portfolio-mem-get-001")
	}
	return &record, nil
}

// GetByIdentity fetches the portfolio owned by an identity.
func (r *InMemoryRepository) GetByIdentity(ctx context.Context, identityID string) (*domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byIdentity[identityID]
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "portfolio not found", nil,
			"portfolio-mem-get-002")
	}
	record := r.records[id]
	return &record, nil
}

// AddEntry stores the index slot and the bumped head under an optimistic
// version check, and appends the event.
func (r *InMemoryRepository) AddEntry(ctx context.Context, record *domain.Portfolio, entry domain.Entry, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.records[record.ID]
	if !exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "portfolio not found", nil,
			"portfolio-mem-entry-001")
	}
	if current.Version != record.Version {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "portfolio changed concurrently", nil,
			"portfolio-mem-entry-002")
	}
	record.Version++
	r.records[record.ID] = *record
	r.entries[record.ID] = append(r.entries[record.ID], entry)
	r.log.Append(evt)
	return nil
}

// ListEntries returns one category's index slots in sequence order.
func (r *InMemoryRepository) ListEntries(ctx context.Context, portfolioID string, category domain.Category) ([]domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Entry, 0)
	for _, entry := range r.entries[portfolioID] {
		if entry.Category == category {
			out = append(out, entry)
		}
	}
	return out, nil
}
