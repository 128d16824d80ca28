package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/infrastructure/metrics"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
	"custodia-server/services/ledger-api/utils/recordid"
)

// Service describes the business logic surface for portfolio indices.
type Service interface {
	Create(ctx context.Context, caller, identityID string) (*Portfolio, error)
	AddPermission(ctx context.Context, caller, portfolioID, permissionID string) (*Portfolio, error)
	AddMemory(ctx context.Context, caller, portfolioID, memoryID string) (*Portfolio, error)
	AddAutomation(ctx context.Context, caller, portfolioID, automationID string) (*Portfolio, error)
	GetByID(ctx context.Context, id string) (*Portfolio, error)
	GetByIdentity(ctx context.Context, identityID string) (*Portfolio, error)
	ListEntries(ctx context.Context, portfolioID string, category Category) ([]Entry, error)
}

// DefaultService implements the Service interface. Registration is hardened:
// the referenced child record must exist and belong to the portfolio's
// identity before it is indexed.
type DefaultService struct {
	repo        Repository
	identities  identity.Repository
	permissions permission.Repository
	memories    memory.Repository
	automations automation.Repository
	clock       clock.Source
	notifier    event.Notifier
	log         zerolog.Logger
}

// NewService wires the portfolio service with its collaborators.
func NewService(
	repo Repository,
	identities identity.Repository,
	permissions permission.Repository,
	memories memory.Repository,
	automations automation.Repository,
	clk clock.Source,
	notifier event.Notifier,
	log zerolog.Logger,
) *DefaultService {
	return &DefaultService{
		repo:        repo,
		identities:  identities,
		permissions: permissions,
		memories:    memories,
		automations: automations,
		clock:       clk,
		notifier:    notifier,
		log:         log.With().Str("component", "portfolio-service").Logger(),
	}
}

// Create initializes an empty portfolio for the identity. Only the
// identity's owner may create it; an identity has at most one portfolio.
func (s *DefaultService) Create(ctx context.Context, caller, identityID string) (*Portfolio, error) {
	ref, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if ref.Owner != caller {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "caller is not the identity owner", nil,
			"portfolio-create-owner-001")
	}

	now := s.clock.Now(ctx)
	record := &Portfolio{
		ID:         recordid.New(recordid.KindPortfolio),
		IdentityID: identityID,
		Owner:      caller,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	evt := event.New(event.KindPortfolioCreated, record.ID, identityID, caller, now, nil)
	if err := s.repo.Create(ctx, record, evt); err != nil {
		metrics.RecordMutation("portfolio", "create", "error")
		return nil, err
	}

	metrics.RecordMutation("portfolio", "create", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	s.log.Info().Str("portfolio_id", record.ID).Str("identity_id", identityID).Msg("portfolio created")
	return record, nil
}

// AddPermission registers a permission id in the portfolio's permission
// index at the next dense sequence key.
func (s *DefaultService) AddPermission(ctx context.Context, caller, portfolioID, permissionID string) (*Portfolio, error) {
	return s.addEntry(ctx, caller, portfolioID, CategoryPermission, permissionID,
		event.KindPortfolioPermissionAdded, "permission_id",
		func(ctx context.Context, childID string) (string, error) {
			child, err := s.permissions.GetByID(ctx, childID)
			if err != nil {
				return "", err
			}
			return child.IdentityID, nil
		})
}

// AddMemory registers a memory id in the portfolio's memory index.
func (s *DefaultService) AddMemory(ctx context.Context, caller, portfolioID, memoryID string) (*Portfolio, error) {
	return s.addEntry(ctx, caller, portfolioID, CategoryMemory, memoryID,
		event.KindPortfolioMemoryAdded, "memory_id",
		func(ctx context.Context, childID string) (string, error) {
			child, err := s.memories.GetByID(ctx, childID)
			if err != nil {
				return "", err
			}
			return child.IdentityID, nil
		})
}

// AddAutomation registers an automation id in the portfolio's automation
// index.
func (s *DefaultService) AddAutomation(ctx context.Context, caller, portfolioID, automationID string) (*Portfolio, error) {
	return s.addEntry(ctx, caller, portfolioID, CategoryAutomation, automationID,
		event.KindPortfolioAutomationAdded, "automation_id",
		func(ctx context.Context, childID string) (string, error) {
			child, err := s.automations.GetByID(ctx, childID)
			if err != nil {
				return "", err
			}
			return child.IdentityID, nil
		})
}

// GetByID retrieves a portfolio by id.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*Portfolio, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByIdentity retrieves the portfolio indexing the given identity.
func (s *DefaultService) GetByIdentity(ctx context.Context, identityID string) (*Portfolio, error) {
	return s.repo.GetByIdentity(ctx, identityID)
}

// ListEntries returns one category's index in sequence order.
func (s *DefaultService) ListEntries(ctx context.Context, portfolioID string, category Category) ([]Entry, error) {
	if !category.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown category %q", category), nil,
			"portfolio-entries-category-001")
	}
	if _, err := s.repo.GetByID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, portfolioID, category)
}

type childResolver func(ctx context.Context, childID string) (identityID string, err error)

func (s *DefaultService) addEntry(
	ctx context.Context,
	caller, portfolioID string,
	category Category,
	childID string,
	kind event.Kind,
	payloadKey string,
	resolve childResolver,
) (*Portfolio, error) {
	record, err := s.repo.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if record.Owner != caller {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "caller is not the portfolio owner", nil,
			"portfolio-add-owner-001")
	}

	childIdentity, err := resolve(ctx, childID)
	if err != nil {
		return nil, err
	}
	if childIdentity != record.IdentityID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("%s belongs to a different identity", category), nil,
			"portfolio-add-identity-001")
	}

	now := s.clock.Now(ctx)
	entry := Entry{
		Category: category,
		Seq:      record.Count(category),
		ChildID:  childID,
	}
	record.bumpCount(category)
	record.UpdatedAt = now

	evt := event.New(kind, record.ID, record.IdentityID, record.Owner, now, map[string]any{
		payloadKey: childID,
	})
	if err := s.repo.AddEntry(ctx, record, entry, evt); err != nil {
		metrics.RecordMutation("portfolio", "add_"+string(category), "error")
		return nil, err
	}

	metrics.RecordMutation("portfolio", "add_"+string(category), "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}
