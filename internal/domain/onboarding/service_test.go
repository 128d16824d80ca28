package onboarding_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/onboarding"
	"custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/domain/portfolio"
	automationrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/automation"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	identityrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/identity"
	memoryrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/memory"
	permissionrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/permission"
	portfoliorepo "custodia-server/services/ledger-api/internal/infrastructure/repository/portfolio"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

func newOnboardingFixture(millis uint64) (*onboarding.DefaultService, *portfolio.DefaultService, *eventlog.InMemoryLog) {
	stream := eventlog.NewInMemoryLog()
	clk := &clock.Fixed{Millis: millis}
	nop := event.NopNotifier{}
	log := zerolog.Nop()

	identityRepo := identityrepo.NewInMemoryRepository(stream)
	permissionRepo := permissionrepo.NewInMemoryRepository(stream)
	memoryRepo := memoryrepo.NewInMemoryRepository(stream)
	automationRepo := automationrepo.NewInMemoryRepository(stream)
	portfolioRepo := portfoliorepo.NewInMemoryRepository(stream)

	identities := identity.NewService(identityRepo, clk, nop, log)
	permissions := permission.NewService(permissionRepo, identityRepo, clk, nop, log)
	portfolios := portfolio.NewService(portfolioRepo, identityRepo, permissionRepo,
		memoryRepo, automationRepo, clk, nop, log)

	svc := onboarding.NewService(identities, portfolios, permissions, log)
	return svc, portfolios, stream
}

func TestInitializeUser(t *testing.T) {
	svc, portfolios, stream := newOnboardingFixture(1000)
	ctx := context.Background()

	record, pf, err := svc.InitializeUser(ctx, "owner-1", identity.CreateParams{
		Provider:   "google",
		ProviderID: "g-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", record.Owner)
	assert.Equal(t, record.ID, pf.IdentityID)
	assert.Equal(t, uint64(0), pf.PermissionCount)

	// The portfolio is reachable through the identity index afterwards.
	byIdentity, err := portfolios.GetByIdentity(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, pf.ID, byIdentity.ID)

	// Two mutations, two events.
	events := stream.All()
	require.Len(t, events, 2)
	assert.Equal(t, event.KindIdentityCreated, events[0].Kind)
	assert.Equal(t, event.KindPortfolioCreated, events[1].Kind)
}

func TestInitializeUserValidation(t *testing.T) {
	svc, _, stream := newOnboardingFixture(1000)

	_, _, err := svc.InitializeUser(context.Background(), "owner-1", identity.CreateParams{
		Provider: "google",
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Empty(t, stream.All(), "a failed initialization emits nothing")
}

func TestGrantAppPermission(t *testing.T) {
	svc, _, _ := newOnboardingFixture(1000)
	ctx := context.Background()

	record, _, err := svc.InitializeUser(ctx, "owner-1", identity.CreateParams{
		Provider:   "google",
		ProviderID: "g-123",
	})
	require.NoError(t, err)

	grant, err := svc.GrantAppPermission(ctx, "owner-1", permission.CreateParams{
		IdentityID: record.ID,
		AppName:    "calendar",
		AppID:      "app-1",
		Scopes:     []string{"read", "read"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"read"}, grant.Scopes)
	assert.True(t, grant.IsActive)
}
