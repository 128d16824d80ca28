package automation

import (
	"context"
	"sync"

	domain "custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository for the memory backend and
// tests. Record mutation and event append happen under one lock, mirroring
// the postgres transaction boundary.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Automation
	log     *eventlog.InMemoryLog
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository(log *eventlog.InMemoryLog) *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]domain.Automation),
		log:     log,
	}
}

// Create stores the automation and appends its event.
func (r *InMemoryRepository) Create(ctx context.Context, record *domain.Automation, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "automation already exists", nil,
			"automation-mem-create-001")
	}
	r.records[record.ID] = *record
	r.log.Append(evt)
	return nil
}

// Update stores the automation under an optimistic version check and appends
// the event.
func (r *InMemoryRepository) Update(ctx context.Context, record *domain.Automation, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.records[record.ID]
	if !exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "automation not found", nil,
			"automation-mem-update-001")
	}
	if current.Version != record.Version {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "automation changed concurrently", nil,
			"automation-mem-update-002")
	}
	record.Version++
	r.records[record.ID] = *record
	r.log.Append(evt)
	return nil
}

// GetByID fetches an automation by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*domain.Automation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "automation not found", nil,
			"automation-mem-get-001")
	}
	return &record, nil
}
