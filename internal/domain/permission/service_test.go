package permission_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	identityrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/identity"
	permissionrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/permission"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

type permissionFixture struct {
	svc      *permission.DefaultService
	stream   *eventlog.InMemoryLog
	clk      *clock.Fixed
	identity *identity.Identity
}

func newPermissionFixture(t *testing.T, millis uint64) *permissionFixture {
	t.Helper()
	stream := eventlog.NewInMemoryLog()
	clk := &clock.Fixed{Millis: millis}
	identities := identityrepo.NewInMemoryRepository(stream)

	identitySvc := identity.NewService(identities, clk, event.NopNotifier{}, zerolog.Nop())
	record, err := identitySvc.Create(context.Background(), "owner-1", identity.CreateParams{
		Provider:   "google",
		ProviderID: "g-123",
	})
	require.NoError(t, err)

	svc := permission.NewService(permissionrepo.NewInMemoryRepository(stream), identities, clk,
		event.NopNotifier{}, zerolog.Nop())
	return &permissionFixture{svc: svc, stream: stream, clk: clk, identity: record}
}

func TestGrantDeduplicatesScopes(t *testing.T) {
	f := newPermissionFixture(t, 1000)

	record, err := f.svc.Create(context.Background(), "owner-1", permission.CreateParams{
		IdentityID: f.identity.ID,
		AppName:    "calendar",
		AppID:      "app-1",
		Scopes:     []string{"read", "write", "read", "write", "read"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "write"}, record.Scopes)
	assert.True(t, record.IsActive)
	assert.Equal(t, uint64(1000), record.CreatedAt)
	assert.Equal(t, uint64(1000), record.LastUsedAt)
}

func TestGrantValidation(t *testing.T) {
	f := newPermissionFixture(t, 1000)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "owner-1", permission.CreateParams{
		IdentityID: f.identity.ID, AppID: "app-1",
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.Create(ctx, "owner-1", permission.CreateParams{
		IdentityID: f.identity.ID, AppName: "calendar",
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.Create(ctx, "owner-1", permission.CreateParams{
		IdentityID: "idn_missing", AppName: "calendar", AppID: "app-1",
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestRevokeIsOneWay(t *testing.T) {
	f := newPermissionFixture(t, 1000)
	ctx := context.Background()

	record, err := f.svc.Create(ctx, "owner-1", permission.CreateParams{
		IdentityID: f.identity.ID, AppName: "calendar", AppID: "app-1",
	})
	require.NoError(t, err)

	revoked, err := f.svc.Revoke(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	assert.False(t, revoked.IsActive)

	// Second revoke must fail: the record is already inactive.
	_, err = f.svc.Revoke(ctx, "owner-1", record.ID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))
}

func TestRevokeRejectsNonOwner(t *testing.T) {
	f := newPermissionFixture(t, 1000)
	ctx := context.Background()

	record, err := f.svc.Create(ctx, "owner-1", permission.CreateParams{
		IdentityID: f.identity.ID, AppName: "calendar", AppID: "app-1",
	})
	require.NoError(t, err)

	_, err = f.svc.Revoke(ctx, "intruder", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestAddScope(t *testing.T) {
	f := newPermissionFixture(t, 1000)
	ctx := context.Background()

	record, err := f.svc.Create(ctx, "owner-1", permission.CreateParams{
		IdentityID: f.identity.ID, AppName: "calendar", AppID: "app-1",
		Scopes: []string{"read"},
	})
	require.NoError(t, err)
	eventsBefore := len(f.stream.All())

	f.clk.Set(2000)
	updated, err := f.svc.AddScope(ctx, "owner-1", record.ID, "write")
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "write"}, updated.Scopes)
	assert.Equal(t, uint64(2000), updated.LastUsedAt)
	assert.Len(t, f.stream.All(), eventsBefore+1)

	// Duplicate insert leaves the set unchanged but still counts as a
	// successful mutation: last_used_at moves and an event is emitted.
	f.clk.Set(3000)
	again, err := f.svc.AddScope(ctx, "owner-1", record.ID, "write")
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "write"}, again.Scopes)
	assert.Equal(t, uint64(3000), again.LastUsedAt)
	assert.Len(t, f.stream.All(), eventsBefore+2)

	_, err = f.svc.AddScope(ctx, "owner-1", record.ID, "  ")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestHasScope(t *testing.T) {
	f := newPermissionFixture(t, 1000)
	ctx := context.Background()

	record, err := f.svc.Create(ctx, "owner-1", permission.CreateParams{
		IdentityID: f.identity.ID, AppName: "calendar", AppID: "app-1",
		Scopes: []string{"read"},
	})
	require.NoError(t, err)

	has, err := f.svc.HasScope(ctx, record.ID, "read")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = f.svc.HasScope(ctx, record.ID, "write")
	require.NoError(t, err)
	assert.False(t, has)
}
