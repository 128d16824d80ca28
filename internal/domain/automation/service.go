package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/status"
	"custodia-server/services/ledger-api/internal/infrastructure/metrics"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
	"custodia-server/services/ledger-api/utils/recordid"
)

// Service describes the business logic surface for automation records.
type Service interface {
	Create(ctx context.Context, caller string, params CreateParams) (*Automation, error)
	Approve(ctx context.Context, caller, id string) (*Automation, error)
	Execute(ctx context.Context, caller, id string) (*Automation, error)
	Cancel(ctx context.Context, caller, id string) (*Automation, error)
	GetByID(ctx context.Context, id string) (*Automation, error)
}

// CreateParams contains parameters for creating an automation.
type CreateParams struct {
	IdentityID        string
	AutomationType    AutomationType
	Title             string
	Description       string
	TriggerAt         uint64
	RecurrencePattern *string
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo       Repository
	identities identity.Repository
	clock      clock.Source
	notifier   event.Notifier
	log        zerolog.Logger
}

// NewService wires the automation service with its collaborators.
func NewService(repo Repository, identities identity.Repository, clk clock.Source, notifier event.Notifier, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:       repo,
		identities: identities,
		clock:      clk,
		notifier:   notifier,
		log:        log.With().Str("component", "automation-service").Logger(),
	}
}

// Create registers a new pending automation owned by the caller. The trigger
// time may not lie in the past, and recurring automations must carry a
// recurrence pattern.
func (s *DefaultService) Create(ctx context.Context, caller string, params CreateParams) (*Automation, error) {
	if !params.AutomationType.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown automation type %d", params.AutomationType), nil,
			"automation-create-type-001")
	}
	if params.AutomationType == TypeRecurring &&
		(params.RecurrencePattern == nil || strings.TrimSpace(*params.RecurrencePattern) == "") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "recurrence_pattern is required for recurring automations", nil,
			"automation-create-recurrence-001")
	}
	if _, err := s.identities.GetByID(ctx, params.IdentityID); err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	if params.TriggerAt < now {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "trigger_at lies in the past", nil,
			"automation-create-trigger-001")
	}

	record := &Automation{
		ID:                recordid.New(recordid.KindAutomation),
		IdentityID:        params.IdentityID,
		Owner:             caller,
		AutomationType:    params.AutomationType,
		Title:             params.Title,
		Description:       params.Description,
		TriggerAt:         params.TriggerAt,
		RecurrencePattern: params.RecurrencePattern,
		Status:            status.StatusPending,
		ExecutionCount:    0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	evt := event.New(event.KindAutomationCreated, record.ID, record.IdentityID, caller, now, map[string]any{
		"automation_type": record.AutomationType.String(),
		"trigger_at":      record.TriggerAt,
	})
	if err := s.repo.Create(ctx, record, evt); err != nil {
		metrics.RecordMutation("automation", "create", "error")
		return nil, err
	}

	metrics.RecordMutation("automation", "create", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	s.log.Info().Str("automation_id", record.ID).Str("automation_type", record.AutomationType.String()).Msg("automation created")
	return record, nil
}

// Approve moves a pending automation to approved.
func (s *DefaultService) Approve(ctx context.Context, caller, id string) (*Automation, error) {
	record, err := s.authorizedLookup(ctx, caller, id, "automation-approve-owner-001")
	if err != nil {
		return nil, err
	}

	next, err := record.Status.TransitionTo(status.StatusApproved)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState,
			fmt.Sprintf("cannot approve automation in status %s", record.Status), err,
			"automation-approve-state-001")
	}

	now := s.clock.Now(ctx)
	record.Status = next
	record.UpdatedAt = now

	evt := event.New(event.KindAutomationApproved, record.ID, record.IdentityID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("automation", "approve", "error")
		return nil, err
	}

	metrics.RecordMutation("automation", "approve", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// Execute runs an approved automation whose trigger time has come. The
// status check precedes the trigger-time check: executing a non-approved
// automation is an InvalidState error even before the trigger, while an
// approved-but-early execution fails PreconditionFailed.
func (s *DefaultService) Execute(ctx context.Context, caller, id string) (*Automation, error) {
	record, err := s.authorizedLookup(ctx, caller, id, "automation-execute-owner-001")
	if err != nil {
		return nil, err
	}

	next, err := record.Status.TransitionTo(status.StatusExecuted)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState,
			fmt.Sprintf("cannot execute automation in status %s", record.Status), err,
			"automation-execute-state-001")
	}

	now := s.clock.Now(ctx)
	if now < record.TriggerAt {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypePreconditionFailed,
			fmt.Sprintf("trigger time %d not reached at %d", record.TriggerAt, now), nil,
			"automation-execute-trigger-001")
	}

	record.Status = next
	record.ExecutionCount++
	record.LastExecutedAt = &now
	record.UpdatedAt = now

	evt := event.New(event.KindAutomationExecuted, record.ID, record.IdentityID, record.Owner, now, map[string]any{
		"execution_count": record.ExecutionCount,
	})
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("automation", "execute", "error")
		return nil, err
	}

	metrics.RecordMutation("automation", "execute", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// Cancel terminates a pending or approved automation.
func (s *DefaultService) Cancel(ctx context.Context, caller, id string) (*Automation, error) {
	record, err := s.authorizedLookup(ctx, caller, id, "automation-cancel-owner-001")
	if err != nil {
		return nil, err
	}

	next, err := record.Status.TransitionTo(status.StatusCancelled)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState,
			fmt.Sprintf("cannot cancel automation in status %s", record.Status), err,
			"automation-cancel-state-001")
	}

	now := s.clock.Now(ctx)
	record.Status = next
	record.UpdatedAt = now

	evt := event.New(event.KindAutomationCancelled, record.ID, record.IdentityID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("automation", "cancel", "error")
		return nil, err
	}

	metrics.RecordMutation("automation", "cancel", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// GetByID retrieves an automation by id.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*Automation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DefaultService) authorizedLookup(ctx context.Context, caller, id, errUUID string) (*Automation, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Owner != caller {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "caller is not the automation owner", nil, errUUID)
	}
	return record, nil
}
