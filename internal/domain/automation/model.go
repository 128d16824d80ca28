package automation

import "custodia-server/services/ledger-api/internal/domain/status"

// AutomationType tags the scheduling flavor of an automation.
type AutomationType uint8

const (
	TypeReminder  AutomationType = 1
	TypeScheduled AutomationType = 2
	TypeRecurring AutomationType = 3
)

// Valid reports whether the tag is one of the known automation types.
func (t AutomationType) Valid() bool {
	return t >= TypeReminder && t <= TypeRecurring
}

// String returns the human readable name of the automation type.
func (t AutomationType) String() string {
	switch t {
	case TypeReminder:
		return "reminder"
	case TypeScheduled:
		return "scheduled"
	case TypeRecurring:
		return "recurring"
	default:
		return "unknown"
	}
}

// Automation is a scheduled or recurring action tied to an identity,
// progressing through the pending/approved/executed/cancelled state machine.
// Recurring automations do not re-arm after execution; an external scheduler
// creates a fresh record per occurrence.
type Automation struct {
	ID                string         `json:"id"`
	IdentityID        string         `json:"identity_id"`
	Owner             string         `json:"owner"`
	AutomationType    AutomationType `json:"automation_type"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	TriggerAt         uint64         `json:"trigger_at"`
	RecurrencePattern *string        `json:"recurrence_pattern,omitempty"`
	Status            status.Status  `json:"status"`
	ExecutionCount    uint64         `json:"execution_count"`
	LastExecutedAt    *uint64        `json:"last_executed_at,omitempty"`
	CreatedAt         uint64         `json:"created_at"`
	UpdatedAt         uint64         `json:"updated_at"`

	Version uint `json:"-"`
}

// IsActive reports whether the automation can still make progress.
func (a *Automation) IsActive() bool {
	return a.Status.IsActive()
}
