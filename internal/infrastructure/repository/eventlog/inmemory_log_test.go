package eventlog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
)

func seed(log *eventlog.InMemoryLog, identityID string, n int) {
	for i := 0; i < n; i++ {
		log.Append(event.New(event.KindIdentityUpdated, "idn_x", identityID, "owner-1", uint64(1000+i), nil))
	}
}

func TestListByIdentityFilters(t *testing.T) {
	log := eventlog.NewInMemoryLog()
	seed(log, "idn_a", 3)
	seed(log, "idn_b", 2)

	events, err := log.ListByIdentity(context.Background(), "idn_a", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, evt := range events {
		assert.Equal(t, "idn_a", evt.IdentityID)
		assert.Equal(t, uint64(1000+i), evt.Timestamp, "emission order is kept")
	}
}

func TestListByIdentityPaginates(t *testing.T) {
	log := eventlog.NewInMemoryLog()
	seed(log, "idn_a", 5)
	ctx := context.Background()

	page, err := log.ListByIdentity(ctx, "idn_a", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(1000), page[0].Timestamp)

	page, err = log.ListByIdentity(ctx, "idn_a", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(1004), page[0].Timestamp)

	page, err = log.ListByIdentity(ctx, "idn_a", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}
