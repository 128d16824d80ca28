package identity_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	identityrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/identity"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

func newIdentityFixture(millis uint64) (*identity.DefaultService, *eventlog.InMemoryLog, *clock.Fixed) {
	stream := eventlog.NewInMemoryLog()
	clk := &clock.Fixed{Millis: millis}
	svc := identity.NewService(identityrepo.NewInMemoryRepository(stream), clk, event.NopNotifier{}, zerolog.Nop())
	return svc, stream, clk
}

func TestCreateRequiresProvider(t *testing.T) {
	svc, stream, _ := newIdentityFixture(1000)

	_, err := svc.Create(context.Background(), "owner-1", identity.CreateParams{ProviderID: "g-123"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = svc.Create(context.Background(), "owner-1", identity.CreateParams{Provider: "google"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	assert.Empty(t, stream.All(), "failed creates must emit no events")
}

func TestCreateStartsUnverified(t *testing.T) {
	svc, stream, _ := newIdentityFixture(1000)

	record, err := svc.Create(context.Background(), "owner-1", identity.CreateParams{
		Provider:   "google",
		ProviderID: "g-123",
	})
	require.NoError(t, err)
	assert.False(t, record.IsVerified)
	assert.Equal(t, "owner-1", record.Owner)
	assert.Equal(t, uint64(1000), record.CreatedAt)
	assert.Equal(t, uint64(1000), record.UpdatedAt)

	events := stream.All()
	require.Len(t, events, 1)
	assert.Equal(t, event.KindIdentityCreated, events[0].Kind)
	assert.Equal(t, record.ID, events[0].RecordID)
	assert.Equal(t, uint64(1000), events[0].Timestamp)
}

func TestVerifyLifecycle(t *testing.T) {
	svc, stream, clk := newIdentityFixture(1000)
	ctx := context.Background()

	record, err := svc.Create(ctx, "owner-1", identity.CreateParams{Provider: "google", ProviderID: "g-123"})
	require.NoError(t, err)

	clk.Set(2000)
	verified, err := svc.Verify(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Equal(t, uint64(1000), verified.CreatedAt)
	assert.Equal(t, uint64(2000), verified.UpdatedAt)
	require.Len(t, stream.All(), 2)
	assert.Equal(t, event.KindIdentityUpdated, stream.All()[1].Kind)

	// Re-verifying is a no-op success and emits nothing.
	clk.Set(3000)
	again, err := svc.Verify(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	assert.True(t, again.IsVerified)
	assert.Equal(t, uint64(2000), again.UpdatedAt)
	assert.Len(t, stream.All(), 2)
}

func TestVerifyRejectsNonOwner(t *testing.T) {
	svc, stream, _ := newIdentityFixture(1000)
	ctx := context.Background()

	record, err := svc.Create(ctx, "owner-1", identity.CreateParams{Provider: "google", ProviderID: "g-123"})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, "intruder", record.ID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	current, err := svc.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.False(t, current.IsVerified)
	assert.Len(t, stream.All(), 1)
}

func TestUpdateEmail(t *testing.T) {
	svc, _, clk := newIdentityFixture(1000)
	ctx := context.Background()

	record, err := svc.Create(ctx, "owner-1", identity.CreateParams{Provider: "google", ProviderID: "g-123"})
	require.NoError(t, err)

	email := "user@example.com"
	clk.Set(1500)
	updated, err := svc.UpdateEmail(ctx, "owner-1", record.ID, &email)
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)
	assert.Equal(t, uint64(1500), updated.UpdatedAt)

	clk.Set(1600)
	cleared, err := svc.UpdateEmail(ctx, "owner-1", record.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Email)
}

func TestVerifyUnknownIdentity(t *testing.T) {
	svc, _, _ := newIdentityFixture(1000)

	_, err := svc.Verify(context.Background(), "owner-1", "idn_missing")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
