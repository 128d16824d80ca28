// Package status defines the approval/execution lifecycle shared by
// automation records.
package status

import "errors"

// Status represents the lifecycle status of an automation.
type Status string

const (
	// Non-terminal states
	StatusPending  Status = "pending"  // Created, awaiting owner approval
	StatusApproved Status = "approved" // Approved, awaiting trigger time

	// Terminal states (no further transitions allowed)
	StatusExecuted  Status = "executed"  // Ran to completion
	StatusCancelled Status = "cancelled" // Owner cancelled before execution
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusExecuted || s == StatusCancelled
}

// IsActive returns true while the automation can still make progress.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ValidTransitions defines allowed status transitions.
var ValidTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusExecuted, StatusCancelled},
	// Terminal states have no valid transitions
	StatusExecuted:  {},
	StatusCancelled: {},
}

// CanTransitionTo checks if a transition from current status to target status is valid.
func (s Status) CanTransitionTo(target Status) bool {
	validTargets, ok := ValidTransitions[s]
	if !ok {
		return false
	}
	for _, t := range validTargets {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target status and returns error if invalid.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
