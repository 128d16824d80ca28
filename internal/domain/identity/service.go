package identity

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/infrastructure/metrics"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
	"custodia-server/services/ledger-api/utils/recordid"
)

// Service describes the business logic surface for identity operations.
type Service interface {
	Create(ctx context.Context, caller string, params CreateParams) (*Identity, error)
	Verify(ctx context.Context, caller, id string) (*Identity, error)
	UpdateEmail(ctx context.Context, caller, id string, email *string) (*Identity, error)
	GetByID(ctx context.Context, id string) (*Identity, error)
}

// CreateParams contains parameters for creating an identity.
type CreateParams struct {
	Provider   string
	ProviderID string
	Email      *string
	FullName   *string
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo     Repository
	clock    clock.Source
	notifier event.Notifier
	log      zerolog.Logger
}

// NewService wires the identity service with its collaborators.
func NewService(repo Repository, clk clock.Source, notifier event.Notifier, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		log:      log.With().Str("component", "identity-service").Logger(),
	}
}

// Create registers a new identity owned by the caller. The verified flag
// starts false; verification is a separate owner-only step.
func (s *DefaultService) Create(ctx context.Context, caller string, params CreateParams) (*Identity, error) {
	if strings.TrimSpace(params.Provider) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "provider is required", nil,
			"identity-create-provider-001")
	}
	if strings.TrimSpace(params.ProviderID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "provider_id is required", nil,
			"identity-create-providerid-001")
	}

	now := s.clock.Now(ctx)
	record := &Identity{
		ID:         recordid.New(recordid.KindIdentity),
		Owner:      caller,
		Provider:   params.Provider,
		ProviderID: params.ProviderID,
		Email:      params.Email,
		FullName:   params.FullName,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	evt := event.New(event.KindIdentityCreated, record.ID, record.ID, caller, now, map[string]any{
		"provider": record.Provider,
	})
	if err := s.repo.Create(ctx, record, evt); err != nil {
		metrics.RecordMutation("identity", "create", "error")
		return nil, err
	}

	metrics.RecordMutation("identity", "create", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	s.log.Info().Str("identity_id", record.ID).Str("provider", record.Provider).Msg("identity created")
	return record, nil
}

// Verify marks the identity verified. Re-verifying an already verified
// identity is a no-op success and emits nothing.
func (s *DefaultService) Verify(ctx context.Context, caller, id string) (*Identity, error) {
	record, err := s.authorizedLookup(ctx, caller, id, "identity-verify-owner-001")
	if err != nil {
		return nil, err
	}

	if record.IsVerified {
		return record, nil
	}

	now := s.clock.Now(ctx)
	record.IsVerified = true
	record.UpdatedAt = now

	evt := event.New(event.KindIdentityUpdated, record.ID, record.ID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("identity", "verify", "error")
		return nil, err
	}

	metrics.RecordMutation("identity", "verify", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// UpdateEmail replaces the identity's email. A nil email clears it.
func (s *DefaultService) UpdateEmail(ctx context.Context, caller, id string, email *string) (*Identity, error) {
	record, err := s.authorizedLookup(ctx, caller, id, "identity-email-owner-001")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	record.Email = email
	record.UpdatedAt = now

	evt := event.New(event.KindIdentityUpdated, record.ID, record.ID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("identity", "update_email", "error")
		return nil, err
	}

	metrics.RecordMutation("identity", "update_email", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// GetByID retrieves an identity by id.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*Identity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DefaultService) authorizedLookup(ctx context.Context, caller, id, errUUID string) (*Identity, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Owner != caller {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "caller is not the identity owner", nil, errUUID)
	}
	return record, nil
}
