package memory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	identityrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/identity"
	memoryrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/memory"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

type memoryFixture struct {
	svc      *memory.DefaultService
	stream   *eventlog.InMemoryLog
	clk      *clock.Fixed
	identity *identity.Identity
}

func newMemoryFixture(t *testing.T, millis uint64) *memoryFixture {
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

	svc := memory.NewService(memoryrepo.NewInMemoryRepository(stream), identities, clk,
		event.NopNotifier{}, zerolog.Nop())
	return &memoryFixture{svc: svc, stream: stream, clk: clk, identity: record}
}

func validHash() []byte {
	return bytes.Repeat([]byte{0xab}, memory.ContentHashSize)
}

func (f *memoryFixture) create(t *testing.T) *memory.Memory {
	t.Helper()
	record, err := f.svc.Create(context.Background(), "owner-1", memory.CreateParams{
		IdentityID:  f.identity.ID,
		ContentType: memory.ContentTypeText,
		Title:       "meeting notes",
		BlobLocator: "blob://bucket/key",
		ContentHash: validHash(),
		ContentSize: 512,
		Tags:        []string{"work"},
	})
	require.NoError(t, err)
	return record
}

func TestCreateValidation(t *testing.T) {
	f := newMemoryFixture(t, 1000)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "owner-1", memory.CreateParams{
		IdentityID: f.identity.ID, ContentType: 0,
		BlobLocator: "blob://x", ContentHash: validHash(),
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.Create(ctx, "owner-1", memory.CreateParams{
		IdentityID: f.identity.ID, ContentType: memory.ContentTypeText,
		ContentHash: validHash(),
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.Create(ctx, "owner-1", memory.CreateParams{
		IdentityID: f.identity.ID, ContentType: memory.ContentTypeText,
		BlobLocator: "blob://x", ContentHash: []byte{0x01, 0x02},
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.Create(ctx, "owner-1", memory.CreateParams{
		IdentityID: "idn_missing", ContentType: memory.ContentTypeText,
		BlobLocator: "blob://x", ContentHash: validHash(),
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestCreateStartsActive(t *testing.T) {
	f := newMemoryFixture(t, 1000)

	record := f.create(t)
	assert.Equal(t, memory.StatusActive, record.Status)
	assert.Empty(t, record.AISuggestions)
	assert.Equal(t, []string{"work"}, record.Tags)

	events := f.stream.All()
	assert.Equal(t, event.KindMemoryCreated, events[len(events)-1].Kind)
}

func TestUpdateWithAIReplacesWholesale(t *testing.T) {
	f := newMemoryFixture(t, 1000)
	ctx := context.Background()
	record := f.create(t)

	summary := "first summary"
	updated, err := f.svc.UpdateWithAI(ctx, "owner-1", record.ID, &summary, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, updated.AISuggestions)

	// A second update replaces, never merges.
	second := "second summary"
	updated, err = f.svc.UpdateWithAI(ctx, "owner-1", record.ID, &second, []string{"c"})
	require.NoError(t, err)
	require.NotNil(t, updated.AISummary)
	assert.Equal(t, "second summary", *updated.AISummary)
	assert.Equal(t, []string{"c"}, updated.AISuggestions)

	updated, err = f.svc.UpdateWithAI(ctx, "owner-1", record.ID, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.AISummary)
	assert.Empty(t, updated.AISuggestions)
}

func TestAddTagsKeepsRepeats(t *testing.T) {
	f := newMemoryFixture(t, 1000)
	ctx := context.Background()
	record := f.create(t)

	updated, err := f.svc.AddTags(ctx, "owner-1", record.ID, []string{"work", "urgent"})
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "work", "urgent"}, updated.Tags)
}

func TestArchiveIsOneWay(t *testing.T) {
	f := newMemoryFixture(t, 1000)
	ctx := context.Background()
	record := f.create(t)

	archived, err := f.svc.Archive(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, memory.StatusArchived, archived.Status)

	_, err = f.svc.Archive(ctx, "owner-1", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))

	_, err = f.svc.AddTags(ctx, "owner-1", record.ID, []string{"late"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))

	summary := "late summary"
	_, err = f.svc.UpdateWithAI(ctx, "owner-1", record.ID, &summary, nil)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))
}

func TestMutationsRejectNonOwner(t *testing.T) {
	f := newMemoryFixture(t, 1000)
	ctx := context.Background()
	record := f.create(t)

	_, err := f.svc.Archive(ctx, "intruder", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	_, err = f.svc.AddTags(ctx, "intruder", record.ID, []string{"x"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestExpired(t *testing.T) {
	never := &memory.Memory{ExpiresAt: 0}
	assert.False(t, never.Expired(1), "expires_at zero means no expiry")

	timed := &memory.Memory{ExpiresAt: 5000}
	assert.False(t, timed.Expired(5000), "boundary instant is not yet expired")
	assert.True(t, timed.Expired(5001))
}
