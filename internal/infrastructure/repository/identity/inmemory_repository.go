package identity

import (
	"context"
	"sync"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository for the memory backend and
// tests. Record mutation and event append happen under one lock, mirroring
// the postgres transaction boundary.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Identity
	log     *eventlog.InMemoryLog
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository(log *eventlog.InMemoryLog) *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]domain.Identity),
		log:     log,
	}
}

// Create stores the identity and appends its event.
func (r *InMemoryRepository) Create(ctx context.Context, record *domain.Identity, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "identity already exists", nil,
			"identity-mem-create-001")
	}
	r.records[record.ID] = *record
	r.log.Append(evt)
	return nil
}

// Update stores the identity under an optimistic version check and appends
// the event.
func (r *InMemoryRepository) Update(ctx context.Context, record *domain.Identity, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.records[record.ID]
	if !exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "identity not found", nil,
			"identity-mem-update-001")
	}
	if current.Version != record.Version {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "identity changed concurrently", nil,
			"identity-mem-update-002")
	}
	record.Version++
	r.records[record.ID] = *record
	r.log.Append(evt)
	return nil
}

// GetByID fetches an identity by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "identity not found", nil,
			"identity-mem-get-001")
	}
	return &record, nil
}
