package eventlog

import (
	"context"
	"sync"

	domain "custodia-server/services/ledger-api/internal/domain/event"
)

// InMemoryLog is a thread-safe append-only event log for the memory backend
// and for tests.
type InMemoryLog struct {
	mu     sync.RWMutex
	events []*domain.Event
}

// NewInMemoryLog returns an empty log.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{}
}

// Append records an event.
func (l *InMemoryLog) Append(evt *domain.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
}

// ListByIdentity returns the identity's events in emission order.
func (l *InMemoryLog) ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]*domain.Event, 0)
	for _, evt := range l.events {
		if evt.IdentityID == identityID {
			matched = append(matched, evt)
		}
	}
	if offset >= len(matched) {
		return []*domain.Event{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// All returns every recorded event in emission order.
func (l *InMemoryLog) All() []*domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*domain.Event, len(l.events))
	copy(out, l.events)
	return out
}
