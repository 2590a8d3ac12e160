package pgdb_test

import (
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *repositorySuite) TestWatchlistRepo() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("vendor@example.com", "3.00", day("2024-03-01"), domain.ProductStatusApproved)

	entry, err := s.watchlist.Create(ctx, domain.NewWatchlistEntry("buyer@example.com", p))
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Equal(t, p.ItemName, entry.ProductName)

	_, err = s.watchlist.Create(ctx, domain.NewWatchlistEntry("buyer@example.com", p))
	require.ErrorIs(t, err, e.ErrAlreadyInWatchlist)

	ghost := *p
	ghost.ID = 9999
	_, err = s.watchlist.Create(ctx, domain.NewWatchlistEntry("buyer@example.com", &ghost))
	require.ErrorIs(t, err, e.ErrProductNotFound)

	require.ErrorIs(t, s.watchlist.Delete(ctx, entry.ID, "intruder@example.com"), e.ErrWatchlistNotFound)

	entries, err := s.watchlist.ListByUser(ctx, "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.watchlist.Delete(ctx, entry.ID, "buyer@example.com"))
	require.ErrorIs(t, s.watchlist.Delete(ctx, entry.ID, "buyer@example.com"), e.ErrWatchlistNotFound)
}
