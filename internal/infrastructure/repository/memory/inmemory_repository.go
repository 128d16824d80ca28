package memory

import (
	"context"
	"sync"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository for the memory backend and
// tests. Record mutation and event append happen under one lock, mirroring
// the postgres transaction boundary.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Memory
	log     *eventlog.InMemoryLog
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository(log *eventlog.InMemoryLog) *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]domain.Memory),
		log:     log,
	}
}

// Create stores the memory and appends its event.
func (r *InMemoryRepository) Create(ctx context.Context, record *domain.Memory, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "memory already exists", nil,
			"memory-mem-create-001")
	}
	r.records[record.ID] = clone(record)
	r.log.Append(evt)
	return nil
}

// Update stores the memory under an optimistic version check and appends
// the event.
func (r *InMemoryRepository) Update(ctx context.Context, record *domain.Memory, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.records[record.ID]
	if !exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "memory not found", nil,
			"memory-mem-update-001")
	}
	if current.Version != record.Version {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "memory changed concurrently", nil,
			"memory-mem-update-002")
	}
	record.Version++
	r.records[record.ID] = clone(record)
	r.log.Append(evt)
	return nil
}

// GetByID fetches a memory by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*domain.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "memory not found", nil,
			"memory-mem-get-001")
	}
	out := clone(&record)
	return &out, nil
}

func clone(record *domain.Memory) domain.Memory {
	out := *record
	out.ContentHash = append([]byte(nil), record.ContentHash...)
	out.AISuggestions = append([]string(nil), record.AISuggestions...)
	out.Tags = append([]string(nil), record.Tags...)
	return out
}
