// Package event models the append-only event stream the ledger emits on
// every successful mutation. One committed mutation produces exactly one
// event; aborted operations produce none.
package event

import (
	"context"

	"custodia-server/services/ledger-api/utils/recordid"
)

// Kind identifies the event schema.
type Kind string

const (
	KindIdentityCreated          Kind = "identity.created"
	KindIdentityUpdated          Kind = "identity.updated"
	KindPermissionGranted        Kind = "permission.granted"
	KindPermissionRevoked        Kind = "permission.revoked"
	KindPermissionUpdated        Kind = "permission.updated"
	KindMemoryCreated            Kind = "memory.created"
	KindMemoryUpdated            Kind = "memory.updated"
	KindMemoryArchived           Kind = "memory.archived"
	KindAutomationCreated        Kind = "automation.created"
	KindAutomationApproved       Kind = "automation.approved"
	KindAutomationExecuted       Kind = "automation.executed"
	KindAutomationCancelled      Kind = "automation.cancelled"
	KindPortfolioCreated         Kind = "portfolio.created"
	KindPortfolioPermissionAdded Kind = "portfolio.permission_added"
	KindPortfolioMemoryAdded     Kind = "portfolio.memory_added"
	KindPortfolioAutomationAdded Kind = "portfolio.automation_added"
)

// Event is a single entry of the ledger's event stream.
type Event struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	RecordID   string         `json:"record_id"`
	IdentityID string         `json:"identity_id,omitempty"`
	Owner      string         `json:"owner,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Timestamp  uint64         `json:"timestamp"`
}

// New builds an event with a fresh evt_* id.
func New(kind Kind, recordID, identityID, owner string, timestamp uint64, payload map[string]any) *Event {
	return &Event{
		ID:         recordid.New(recordid.KindEvent),
		Kind:       kind,
		RecordID:   recordID,
		IdentityID: identityID,
		Owner:      owner,
		Payload:    payload,
		Timestamp:  timestamp,
	}
}

// Log exposes read access to the committed event stream.
type Log interface {
	ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]*Event, error)
}

// Notifier mirrors committed events to an external sink. Delivery is
// best-effort and never affects the outcome of the mutation that produced
// the event.
type Notifier interface {
	Notify(ctx context.Context, evt *Event)
}

// NopNotifier discards events.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, *Event) {}
