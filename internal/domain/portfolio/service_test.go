package portfolio_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/memory"
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

type portfolioFixture struct {
	svc         *portfolio.DefaultService
	identities  *identity.DefaultService
	permissions *permission.DefaultService
	memories    *memory.DefaultService
	automations *automation.DefaultService
	stream      *eventlog.InMemoryLog
	clk         *clock.Fixed
	identity    *identity.Identity
}

func newPortfolioFixture(t *testing.T, millis uint64) *portfolioFixture {
	t.Helper()
	stream := eventlog.NewInMemoryLog()
	clk := &clock.Fixed{Millis: millis}
	nop := event.NopNotifier{}
	log := zerolog.Nop()

	identityRepo := identityrepo.NewInMemoryRepository(stream)
	permissionRepo := permissionrepo.NewInMemoryRepository(stream)
	memoryRepo := memoryrepo.NewInMemoryRepository(stream)
	automationRepo := automationrepo.NewInMemoryRepository(stream)
	portfolioRepo := portfoliorepo.NewInMemoryRepository(stream)

	f := &portfolioFixture{
		svc: portfolio.NewService(portfolioRepo, identityRepo, permissionRepo,
			memoryRepo, automationRepo, clk, nop, log),
		identities:  identity.NewService(identityRepo, clk, nop, log),
		permissions: permission.NewService(permissionRepo, identityRepo, clk, nop, log),
		memories:    memory.NewService(memoryRepo, identityRepo, clk, nop, log),
		automations: automation.NewService(automationRepo, identityRepo, clk, nop, log),
		stream:      stream,
		clk:         clk,
	}

	record, err := f.identities.Create(context.Background(), "owner-1", identity.CreateParams{
		Provider:   "google",
		ProviderID: "g-123",
	})
	require.NoError(t, err)
	f.identity = record
	return f
}

func (f *portfolioFixture) grantPermission(t *testing.T, identityID string) *permission.Permission {
	t.Helper()
	record, err := f.permissions.Create(context.Background(), "owner-1", permission.CreateParams{
		IdentityID: identityID,
		AppName:    "calendar",
		AppID:      fmt.Sprintf("app-%d", len(f.stream.All())),
	})
	require.NoError(t, err)
	return record
}

func TestCreatePortfolio(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	record, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), record.PermissionCount)
	assert.Equal(t, uint64(0), record.MemoryCount)
	assert.Equal(t, uint64(0), record.AutomationCount)

	byIdentity, err := f.svc.GetByIdentity(ctx, f.identity.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, byIdentity.ID)

	_, err = f.svc.Create(ctx, "owner-1", "idn_missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestCreateRejectsNonOwner(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	// A foreign principal must not be able to claim the identity's only
	// portfolio slot.
	_, err := f.svc.Create(ctx, "intruder", f.identity.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	record, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", record.Owner)
}

func TestAddPermissionsAssignsDenseSequence(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	pf, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)

	const n = 5
	childIDs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		grant := f.grantPermission(t, f.identity.ID)
		childIDs = append(childIDs, grant.ID)
		updated, err := f.svc.AddPermission(ctx, "owner-1", pf.ID, grant.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), updated.PermissionCount)
	}

	entries, err := f.svc.ListEntries(ctx, pf.ID, portfolio.CategoryPermission)
	require.NoError(t, err)
	require.Len(t, entries, n)
	for i, entry := range entries {
		assert.Equal(t, uint64(i), entry.Seq, "sequence keys are dense and 0-based")
		assert.Equal(t, childIDs[i], entry.ChildID, "entries keep insertion order")
	}
}

func TestCategoriesCountIndependently(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	pf, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)

	grant := f.grantPermission(t, f.identity.ID)
	_, err = f.svc.AddPermission(ctx, "owner-1", pf.ID, grant.ID)
	require.NoError(t, err)

	mem, err := f.memories.Create(ctx, "owner-1", memory.CreateParams{
		IdentityID:  f.identity.ID,
		ContentType: memory.ContentTypeText,
		BlobLocator: "blob://bucket/key",
		ContentHash: bytes.Repeat([]byte{0x01}, memory.ContentHashSize),
	})
	require.NoError(t, err)
	_, err = f.svc.AddMemory(ctx, "owner-1", pf.ID, mem.ID)
	require.NoError(t, err)

	aut, err := f.automations.Create(ctx, "owner-1", automation.CreateParams{
		IdentityID:     f.identity.ID,
		AutomationType: automation.TypeReminder,
		TriggerAt:      5000,
	})
	require.NoError(t, err)
	updated, err := f.svc.AddAutomation(ctx, "owner-1", pf.ID, aut.ID)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), updated.PermissionCount)
	assert.Equal(t, uint64(1), updated.MemoryCount)
	assert.Equal(t, uint64(1), updated.AutomationCount)

	// Each category's index starts its own sequence at zero.
	for _, category := range []portfolio.Category{
		portfolio.CategoryPermission, portfolio.CategoryMemory, portfolio.CategoryAutomation,
	} {
		entries, err := f.svc.ListEntries(ctx, pf.ID, category)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, uint64(0), entries[0].Seq)
	}
}

func TestAddEntryRejectsNonOwner(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	pf, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)
	grant := f.grantPermission(t, f.identity.ID)

	_, err = f.svc.AddPermission(ctx, "intruder", pf.ID, grant.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestAddEntryRejectsForeignChild(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	pf, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)

	other, err := f.identities.Create(ctx, "owner-1", identity.CreateParams{
		Provider:   "google",
		ProviderID: "g-456",
	})
	require.NoError(t, err)
	foreign := f.grantPermission(t, other.ID)

	// The child exists but is delegated by a different identity.
	_, err = f.svc.AddPermission(ctx, "owner-1", pf.ID, foreign.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	current, err := f.svc.GetByID(ctx, pf.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), current.PermissionCount)
}

func TestAddEntryRejectsMissingChild(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	pf, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)

	_, err = f.svc.AddPermission(ctx, "owner-1", pf.ID, "prm_missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestListEntriesValidation(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	pf, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)

	_, err = f.svc.ListEntries(ctx, pf.ID, portfolio.Category("bogus"))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.ListEntries(ctx, "pfl_missing", portfolio.CategoryPermission)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestAddEntryEmitsEvent(t *testing.T) {
	f := newPortfolioFixture(t, 1000)
	ctx := context.Background()

	pf, err := f.svc.Create(ctx, "owner-1", f.identity.ID)
	require.NoError(t, err)
	grant := f.grantPermission(t, f.identity.ID)

	before := len(f.stream.All())
	_, err = f.svc.AddPermission(ctx, "owner-1", pf.ID, grant.ID)
	require.NoError(t, err)

	events := f.stream.All()
	require.Len(t, events, before+1)
	last := events[len(events)-1]
	assert.Equal(t, event.KindPortfolioPermissionAdded, last.Kind)
	assert.Equal(t, grant.ID, last.Payload["permission_id"])
}
