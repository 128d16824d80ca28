package permission

import (
	"context"
	"sync"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository for the memory backend and
// tests. Record mutation and event append happen under one lock, mirroring
// the postgres transaction boundary.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Permission
	log     *eventlog.InMemoryLog
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository(log *eventlog.InMemoryLog) *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]domain.Permission),
		log:     log,
	}
}

// Create stores the permission and appends its event.
func (r *InMemoryRepository) Create(ctx context.Context, record *domain.Permission, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "permission already exists", nil,
			"permission-mem-create-001")
	}
	r.records[record.ID] = clone(record)
	r.log.Append(evt)
	return nil
}

// Update stores the permission under an optimistic version check and appends
// the event.
func (r *InMemoryRepository) Update(ctx context.Context, record *domain.Permission, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.records[record.ID]
	if !exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "permission not found", nil,
			"permission-mem-update-001")
	}
	if current.Version != record.Version {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "permission changed concurrently", nil,
			"permission-mem-update-002")
	}
	record.Version++
	r.records[record.ID] = clone(record)
	r.log.Append(evt)
	return nil
}

// GetByID fetches a permission by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "permission not found", nil,
			"permission-mem-get-001")
	}
	out := clone(&record)
	return &out, nil
}

func clone(record *domain.Permission) domain.Permission {
	out := *record
	out.Scopes = append([]string(nil), record.Scopes...)
	return out
}
