package pgdb_test

import (
	"context"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOf(date, price string) domain.PriceSample {
	return domain.NewPriceSample(day(date), decimal.RequireFromString(price))
}

func (s *repositorySuite) TestPriceRepo_AppendKeepsInsertionOrder() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("vendor@example.com", "10.00", day("2024-03-01"), domain.ProductStatusApproved)

	series, err := s.prices.Read(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, series)

	want := domain.PriceSeries{
		sampleOf("2024-03-05", "10.00"),
		sampleOf("2024-03-01", "12.00"),
		sampleOf("2024-03-05", "11.00"),
	}
	for _, sample := range want {
		require.NoError(t, s.prices.Append(ctx, p.ID, sample))
	}

	got, err := s.prices.Read(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got, decimalComparer))

	latest, ok := got.Latest()
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", latest.DateString())
	assert.True(t, latest.Price.Equal(decimal.RequireFromString("11.00")))
}

func (s *repositorySuite) TestPriceRepo_UnknownProduct() {
	t := s.T()
	ctx := t.Context()

	err := s.prices.Append(ctx, 404, sampleOf("2024-03-05", "10.00"))
	require.ErrorIs(t, err, e.ErrProductNotFound)

	_, err = s.prices.Read(ctx, 404)
	require.ErrorIs(t, err, e.ErrProductNotFound)

	err = s.prices.Replace(ctx, 404, domain.PriceSeries{sampleOf("2024-03-05", "10.00")})
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func (s *repositorySuite) TestPriceRepo_Replace() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("vendor@example.com", "10.00", day("2024-03-01"), domain.ProductStatusApproved)
	require.NoError(t, s.prices.Append(ctx, p.ID, sampleOf("2024-01-01", "1.00")))

	want := domain.PriceSeries{
		sampleOf("2024-03-10", "4.00"),
		sampleOf("2024-03-02", "5.50"),
		sampleOf("2024-03-10", "4.25"),
	}
	require.NoError(t, s.prices.Replace(ctx, p.ID, want))

	got, err := s.prices.Read(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got, decimalComparer))

	require.NoError(t, s.prices.Replace(ctx, p.ID, domain.PriceSeries{}))
	got, err = s.prices.Read(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func (s *repositorySuite) TestPriceRepo_ReplaceRollsBackWithTransaction() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("vendor@example.com", "10.00", day("2024-03-01"), domain.ProductStatusApproved)
	require.NoError(t, s.prices.Append(ctx, p.ID, sampleOf("2024-01-01", "1.00")))

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.prices.Replace(ctx, p.ID, domain.PriceSeries{sampleOf("2024-02-01", "2.00")}); err != nil {
			return err
		}
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	got, err := s.prices.Read(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-01", got[0].DateString())
}
