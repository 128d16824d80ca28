package permission

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/infrastructure/metrics"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
	"custodia-server/services/ledger-api/utils/recordid"
)

// Service describes the business logic surface for permission grants.
type Service interface {
	Create(ctx context.Context, caller string, params CreateParams) (*Permission, error)
	Revoke(ctx context.Context, caller, id string) (*Permission, error)
	AddScope(ctx context.Context, caller, id, scope string) (*Permission, error)
	HasScope(ctx context.Context, id, scope string) (bool, error)
	GetByID(ctx context.Context, id string) (*Permission, error)
}

// CreateParams contains parameters for granting a permission.
type CreateParams struct {
	IdentityID      string
	AppName         string
	AppID           string
	Scopes          []string
	AccessTokenHash string
	ExpiresAt       uint64
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo       Repository
	identities identity.Repository
	clock      clock.Source
	notifier   event.Notifier
	log        zerolog.Logger
}

// NewService wires the permission service with its collaborators.
func NewService(repo Repository, identities identity.Repository, clk clock.Source, notifier event.Notifier, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:       repo,
		identities: identities,
		clock:      clk,
		notifier:   notifier,
		log:        log.With().Str("component", "permission-service").Logger(),
	}
}

// Create grants a new permission owned by the caller. The input scope list
// is deduplicated into a set.
func (s *DefaultService) Create(ctx context.Context, caller string, params CreateParams) (*Permission, error) {
	if strings.TrimSpace(params.AppName) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "app_name is required", nil,
			"permission-create-appname-001")
	}
	if strings.TrimSpace(params.AppID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "app_id is required", nil,
			"permission-create-appid-001")
	}
	if _, err := s.identities.GetByID(ctx, params.IdentityID); err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	record := &Permission{
		ID:              recordid.New(recordid.KindPermission),
		IdentityID:      params.IdentityID,
		Owner:           caller,
		AppName:         params.AppName,
		AppID:           params.AppID,
		Scopes:          dedupeScopes(params.Scopes),
		AccessTokenHash: params.AccessTokenHash,
		ExpiresAt:       params.ExpiresAt,
		CreatedAt:       now,
		LastUsedAt:      now,
		IsActive:        true,
	}

	evt := event.New(event.KindPermissionGranted, record.ID, record.IdentityID, caller, now, map[string]any{
		"app_id": record.AppID,
	})
	if err := s.repo.Create(ctx, record, evt); err != nil {
		metrics.RecordMutation("permission", "create", "error")
		return nil, err
	}

	metrics.RecordMutation("permission", "create", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	s.log.Info().Str("permission_id", record.ID).Str("app_id", record.AppID).Msg("permission granted")
	return record, nil
}

// Revoke deactivates a permission. The transition is one-way: a revoked
// permission can be neither revoked again nor reactivated.
func (s *DefaultService) Revoke(ctx context.Context, caller, id string) (*Permission, error) {
	record, err := s.authorizedLookup(ctx, caller, id, "permission-revoke-owner-001")
	if err != nil {
		return nil, err
	}
	if !record.IsActive {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState, "permission already revoked", nil,
			"permission-revoke-state-001")
	}

	now := s.clock.Now(ctx)
	record.IsActive = false

	evt := event.New(event.KindPermissionRevoked, record.ID, record.IdentityID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("permission", "revoke", "error")
		return nil, err
	}

	metrics.RecordMutation("permission", "revoke", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// AddScope inserts a scope into the permission's scope set. Inserting an
// existing scope leaves the set unchanged but still refreshes last_used_at.
func (s *DefaultService) AddScope(ctx context.Context, caller, id, scope string) (*Permission, error) {
	if strings.TrimSpace(scope) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "scope is required", nil,
			"permission-scope-empty-001")
	}

	record, err := s.authorizedLookup(ctx, caller, id, "permission-scope-owner-001")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	record.addScope(scope)
	record.LastUsedAt = now

	evt := event.New(event.KindPermissionUpdated, record.ID, record.IdentityID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("permission", "add_scope", "error")
		return nil, err
	}

	metrics.RecordMutation("permission", "add_scope", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// HasScope reports whether the permission's scope set contains scope.
func (s *DefaultService) HasScope(ctx context.Context, id, scope string) (bool, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return record.HasScope(scope), nil
}

// GetByID retrieves a permission by id.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*Permission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DefaultService) authorizedLookup(ctx context.Context, caller, id, errUUID string) (*Permission, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Owner != caller {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "caller is not the permission owner", nil, errUUID)
	}
	return record, nil
}
