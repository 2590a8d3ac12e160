package pgdb_test

import (
	"context"
	"time"

	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *repositorySuite) TestOutboxEventRepo_RequiresTransaction() {
	event, err := usecase.NewOutboxEvent(usecase.EventPriceAppended, "1", map[string]string{"k": "v"})
	require.NoError(s.T(), err)

	_, err = s.outbox.Create(s.T().Context(), event)
	require.ErrorIs(s.T(), err, e.ErrTransactionNotFound)
}

func (s *repositorySuite) TestOutboxEventRepo_ClaimAndProcess() {
	t := s.T()
	ctx := t.Context()

	for _, id := range []string{"1", "2", "3"} {
		event, err := usecase.NewOutboxEvent(usecase.EventPriceAppended, id, map[string]string{"product_id": id})
		require.NoError(t, err)

		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			_, err := s.outbox.Create(ctx, event)
			return err
		})
		require.NoError(t, err)
	}

	batch, err := s.outbox.GetAndMarkAsProcessing(ctx, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "1", batch[0].AggregateID)
	assert.Equal(t, usecase.Processing, batch[0].Status)
	assert.JSONEq(t, `{"product_id":"1"}`, string(batch[0].Payload))

	rest, err := s.outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)

	require.NoError(t, s.outbox.MarkAsProcessed(ctx, batch[0].ID))
	require.NoError(t, s.outbox.MarkAsProcessed(ctx, batch[0].ID))

	empty, err := s.outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// Два события остались в processing; после reclaim их снова можно забрать.
	reclaimed, err := s.outbox.ReclaimStale(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reclaimed)

	again, err := s.outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, again, 2)

	// Отвергнутое брокером событие больше не возвращается в очередь.
	require.NoError(t, s.outbox.MarkAsFailed(ctx, again[0].ID))
	reclaimed, err = s.outbox.ReclaimStale(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reclaimed)

	var status string
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT status FROM outbox_events WHERE id = $1`, again[0].ID).Scan(&status))
	assert.Equal(t, string(usecase.Failed), status)
}
