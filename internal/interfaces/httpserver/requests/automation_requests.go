package requests

import (
	"custodia-server/services/ledger-api/internal/domain/automation"
)

// CreateAutomationRequest registers a new pending automation.
type CreateAutomationRequest struct {
	IdentityID        string  `json:"identity_id" binding:"required"`
	AutomationType    string  `json:"automation_type" binding:"required"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	TriggerAt         uint64  `json:"trigger_at" binding:"required"`
	RecurrencePattern *string `json:"recurrence_pattern"`
}

// ToDomain converts request to domain parameters. An unknown type name maps
// to a zero value the domain layer rejects.
func (r *CreateAutomationRequest) ToDomain() automation.CreateParams {
	return automation.CreateParams{
		IdentityID:        r.IdentityID,
		AutomationType:    parseAutomationType(r.AutomationType),
		Title:             r.Title,
		Description:       r.Description,
		TriggerAt:         r.TriggerAt,
		RecurrencePattern: r.RecurrencePattern,
	}
}

func parseAutomationType(name string) automation.AutomationType {
	switch name {
	case "reminder":
		return automation.TypeReminder
	case "scheduled":
		return automation.TypeScheduled
	case "recurring":
		return automation.TypeRecurring
	default:
		return 0
	}
}
