package automation_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/status"
	automationrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/automation"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	identityrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/identity"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

type automationFixture struct {
	svc      *automation.DefaultService
	stream   *eventlog.InMemoryLog
	clk      *clock.Fixed
	identity *identity.Identity
}

func newAutomationFixture(t *testing.T, millis uint64) *automationFixture {
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

	svc := automation.NewService(automationrepo.NewInMemoryRepository(stream), identities, clk,
		event.NopNotifier{}, zerolog.Nop())
	return &automationFixture{svc: svc, stream: stream, clk: clk, identity: record}
}

func (f *automationFixture) create(t *testing.T, triggerAt uint64) *automation.Automation {
	t.Helper()
	record, err := f.svc.Create(context.Background(), "owner-1", automation.CreateParams{
		IdentityID:     f.identity.ID,
		AutomationType: automation.TypeReminder,
		Title:          "water the plants",
		TriggerAt:      triggerAt,
	})
	require.NoError(t, err)
	return record
}

func TestCreateValidation(t *testing.T) {
	f := newAutomationFixture(t, 1000)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "owner-1", automation.CreateParams{
		IdentityID: f.identity.ID, AutomationType: 0, TriggerAt: 5000,
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	// Recurring automations need a recurrence pattern.
	_, err = f.svc.Create(ctx, "owner-1", automation.CreateParams{
		IdentityID: f.identity.ID, AutomationType: automation.TypeRecurring, TriggerAt: 5000,
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	// The trigger may not lie in the past.
	_, err = f.svc.Create(ctx, "owner-1", automation.CreateParams{
		IdentityID: f.identity.ID, AutomationType: automation.TypeReminder, TriggerAt: 999,
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.Create(ctx, "owner-1", automation.CreateParams{
		IdentityID: "idn_missing", AutomationType: automation.TypeReminder, TriggerAt: 5000,
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestLifecycle(t *testing.T) {
	f := newAutomationFixture(t, 1000)
	ctx := context.Background()

	record := f.create(t, 5000)
	assert.Equal(t, status.StatusPending, record.Status)
	assert.Equal(t, uint64(0), record.ExecutionCount)

	// Executing a pending automation is an illegal transition, even though
	// the trigger time has not come either.
	_, err := f.svc.Execute(ctx, "owner-1", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))

	f.clk.Set(2000)
	approved, err := f.svc.Approve(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusApproved, approved.Status)

	// Approved but before the trigger: precondition failure, state keeps.
	f.clk.Set(3000)
	_, err = f.svc.Execute(ctx, "owner-1", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePreconditionFailed))

	current, err := f.svc.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusApproved, current.Status)
	assert.Equal(t, uint64(0), current.ExecutionCount)

	f.clk.Set(6000)
	executed, err := f.svc.Execute(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusExecuted, executed.Status)
	assert.Equal(t, uint64(1), executed.ExecutionCount)
	require.NotNil(t, executed.LastExecutedAt)
	assert.Equal(t, uint64(6000), *executed.LastExecutedAt)

	// Executed is terminal.
	_, err = f.svc.Execute(ctx, "owner-1", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))
	_, err = f.svc.Cancel(ctx, "owner-1", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))
}

func TestExecuteAtTriggerInstant(t *testing.T) {
	f := newAutomationFixture(t, 1000)
	ctx := context.Background()

	record := f.create(t, 5000)
	_, err := f.svc.Approve(ctx, "owner-1", record.ID)
	require.NoError(t, err)

	f.clk.Set(5000)
	executed, err := f.svc.Execute(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusExecuted, executed.Status)
}

func TestCancelFromPendingAndApproved(t *testing.T) {
	f := newAutomationFixture(t, 1000)
	ctx := context.Background()

	pending := f.create(t, 5000)
	cancelled, err := f.svc.Cancel(ctx, "owner-1", pending.ID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusCancelled, cancelled.Status)

	// Cancelled is terminal: no approval can follow.
	_, err = f.svc.Approve(ctx, "owner-1", pending.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState))

	approved := f.create(t, 5000)
	_, err = f.svc.Approve(ctx, "owner-1", approved.ID)
	require.NoError(t, err)
	cancelled, err = f.svc.Cancel(ctx, "owner-1", approved.ID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusCancelled, cancelled.Status)
}

func TestMutationsRejectNonOwner(t *testing.T) {
	f := newAutomationFixture(t, 1000)
	ctx := context.Background()
	record := f.create(t, 5000)

	_, err := f.svc.Approve(ctx, "intruder", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	_, err = f.svc.Cancel(ctx, "intruder", record.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestEventsPerTransition(t *testing.T) {
	f := newAutomationFixture(t, 1000)
	ctx := context.Background()

	record := f.create(t, 5000)
	f.clk.Set(2000)
	_, err := f.svc.Approve(ctx, "owner-1", record.ID)
	require.NoError(t, err)
	f.clk.Set(6000)
	_, err = f.svc.Execute(ctx, "owner-1", record.ID)
	require.NoError(t, err)

	kinds := []event.Kind{}
	for _, evt := range f.stream.All() {
		if evt.RecordID == record.ID {
			kinds = append(kinds, evt.Kind)
		}
	}
	assert.Equal(t, []event.Kind{
		event.KindAutomationCreated,
		event.KindAutomationApproved,
		event.KindAutomationExecuted,
	}, kinds)
}
