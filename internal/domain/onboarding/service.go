// Package onboarding composes the record services into user-facing
// operations. It holds no state of its own.
package onboarding

import (
	"context"

	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/domain/portfolio"
)

// Service describes the orchestration surface.
type Service interface {
	// InitializeUser creates an identity and its portfolio in one call.
	InitializeUser(ctx context.Context, caller string, params identity.CreateParams) (*identity.Identity, *portfolio.Portfolio, error)
	// GrantAppPermission creates a permission for an app. Registering it in
	// the identity's portfolio is a separate call the caller makes.
	GrantAppPermission(ctx context.Context, caller string, params permission.CreateParams) (*permission.Permission, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	identities  identity.Service
	portfolios  portfolio.Service
	permissions permission.Service
	log         zerolog.Logger
}

// NewService wires the onboarding service.
func NewService(identities identity.Service, portfolios portfolio.Service, permissions permission.Service, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		identities:  identities,
		portfolios:  portfolios,
		permissions: permissions,
		log:         log.With().Str("component", "onboarding-service").Logger(),
	}
}

// InitializeUser creates the identity record and an empty portfolio for it.
func (s *DefaultService) InitializeUser(ctx context.Context, caller string, params identity.CreateParams) (*identity.Identity, *portfolio.Portfolio, error) {
	record, err := s.identities.Create(ctx, caller, params)
	if err != nil {
		return nil, nil, err
	}

	pf, err := s.portfolios.Create(ctx, caller, record.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("identity_id", record.ID).Str("portfolio_id", pf.ID).Msg("user initialized")
	return record, pf, nil
}

// GrantAppPermission creates the permission record.
func (s *DefaultService) GrantAppPermission(ctx context.Context, caller string, params permission.CreateParams) (*permission.Permission, error) {
	return s.permissions.Create(ctx, caller, params)
}
