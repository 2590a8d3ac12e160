package pgdb_test

import (
	"math"
	"sort"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })

func (s *repositorySuite) TestProductRepo_CreateAndGet() {
	t := s.T()
	ctx := t.Context()

	created := s.createProduct("vendor@example.com", "12.50", day("2024-03-01"), domain.ProductStatusPending)
	require.NotZero(t, created.ID)

	got, err := s.products.GetByID(ctx, created.ID)
	require.NoError(t, err)

	diff := cmp.Diff(created, got, decimalComparer,
		cmpopts.IgnoreFields(domain.Product{}, "CreatedAt", "UpdatedAt"),
		cmpopts.EquateEmpty(),
	)
	assert.Empty(t, diff)
	assert.Equal(t, "2024-03-01", domain.FormatDate(got.CreatedOn))
}

func (s *repositorySuite) TestProductRepo_GetByID_NotFound() {
	_, err := s.products.GetByID(s.T().Context(), 999)
	require.ErrorIs(s.T(), err, e.ErrProductNotFound)
}

func (s *repositorySuite) TestProductRepo_UpdateAndModerate() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("vendor@example.com", "10.00", day("2024-03-01"), domain.ProductStatusPending)

	p.ItemName = "Onions"
	p.PricePerUnit = decimal.RequireFromString("11.25")
	require.NoError(t, s.products.Update(ctx, p))
	require.NotNil(t, p.UpdatedAt)

	p.Moderate(domain.ProductStatusRejected, "blurry photo", "upload a sharper one")
	require.NoError(t, s.products.UpdateStatus(ctx, p))

	got, err := s.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onions", got.ItemName)
	assert.True(t, got.PricePerUnit.Equal(decimal.RequireFromString("11.25")))
	assert.Equal(t, domain.ProductStatusRejected, got.Status)
	assert.Equal(t, "blurry photo", got.RejectionReason)

	missing := *p
	missing.ID = 12345
	require.ErrorIs(t, s.products.Update(ctx, &missing), e.ErrProductNotFound)
	require.ErrorIs(t, s.products.UpdateStatus(ctx, &missing), e.ErrProductNotFound)
}

func (s *repositorySuite) TestProductRepo_DeleteCascades() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("vendor@example.com", "10.00", day("2024-03-01"), domain.ProductStatusApproved)
	require.NoError(t, s.prices.Append(ctx, p.ID, domain.NewPriceSample(day("2024-03-02"), decimal.RequireFromString("9.99"))))
	_, err := s.watchlist.Create(ctx, domain.NewWatchlistEntry("buyer@example.com", p))
	require.NoError(t, err)

	require.NoError(t, s.products.Delete(ctx, p.ID))

	_, err = s.prices.Read(ctx, p.ID)
	require.ErrorIs(t, err, e.ErrProductNotFound)

	entries, err := s.watchlist.ListByUser(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.ErrorIs(t, s.products.Delete(ctx, p.ID), e.ErrProductNotFound)
}

func (s *repositorySuite) TestProductRepo_List_PagesCoverEverythingOnce() {
	t := s.T()
	ctx := t.Context()

	// Повторяющиеся цены проверяют, что границы страниц устойчивы.
	prices := []string{"3.00", "1.00", "2.00", "2.00", "5.00", "4.00", "2.00", "7.00", "6.00", "1.00", "9.00", "8.00", "2.00"}
	for _, price := range prices {
		s.createProduct("vendor@example.com", price, day("2024-01-10"), domain.ProductStatusApproved)
	}

	for _, order := range []domain.SortOrder{domain.SortAsc, domain.SortDesc, domain.SortInsertion} {
		q := domain.NewCatalogQuery()
		q.Sort = order

		var all []domain.Product
		for page := 1; page <= 4; page++ {
			q.Page = page
			items, total, err := s.products.List(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, 13, total)
			assert.Equal(t, []int{6, 6, 1, 0}[page-1], len(items), "sort %q page %d", order, page)
			all = append(all, items...)
		}

		ids := lo.Map(all, func(p domain.Product, _ int) int64 { return p.ID })
		assert.Len(t, lo.Uniq(ids), 13, "sort %q", order)

		switch order {
		case domain.SortAsc:
			assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool { return all[i].PricePerUnit.LessThan(all[j].PricePerUnit) }))
		case domain.SortDesc:
			assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool { return all[i].PricePerUnit.GreaterThan(all[j].PricePerUnit) }))
		default:
			assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }))
		}
	}
}

func (s *repositorySuite) TestProductRepo_List_HugePageOrLimit() {
	t := s.T()
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		s.createProduct("vendor@example.com", "1.00", day("2024-01-10"), domain.ProductStatusApproved)
	}

	items, total, err := s.products.List(ctx, domain.CatalogQuery{Page: math.MaxInt, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, items)

	items, total, err = s.products.List(ctx, domain.CatalogQuery{Page: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 3)
}

func (s *repositorySuite) TestProductRepo_List_Filters() {
	t := s.T()
	ctx := t.Context()

	s.createProduct("vendor@example.com", "1.00", day("2024-01-01"), domain.ProductStatusApproved)
	inRange := s.createProduct("vendor@example.com", "2.00", day("2024-01-15"), domain.ProductStatusApproved)
	onEnd := s.createProduct("vendor@example.com", "3.00", day("2024-01-31"), domain.ProductStatusApproved)
	s.createProduct("vendor@example.com", "4.00", day("2024-01-20"), domain.ProductStatusPending)
	s.createProduct("vendor@example.com", "5.00", day("2024-02-01"), domain.ProductStatusApproved)

	start, end := day("2024-01-15"), day("2024-01-31")
	status := domain.ProductStatusApproved

	q := domain.NewCatalogQuery()
	q.Start, q.End, q.Status = &start, &end, &status

	items, total, err := s.products.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []int64{inRange.ID, onEnd.ID}, lo.Map(items, func(p domain.Product, _ int) int64 { return p.ID }))
}

func (s *repositorySuite) TestProductRepo_ListFeaturedAndByVendor() {
	t := s.T()
	ctx := t.Context()

	older := s.createProduct("a@example.com", "1.00", day("2024-01-01"), domain.ProductStatusApproved)
	newer := s.createProduct("b@example.com", "1.00", day("2024-02-01"), domain.ProductStatusApproved)
	s.createProduct("a@example.com", "1.00", day("2024-03-01"), domain.ProductStatusPending)

	featured, err := s.products.ListFeatured(ctx, domain.FeaturedLimit)
	require.NoError(t, err)
	assert.Equal(t, []int64{newer.ID, older.ID}, lo.Map(featured, func(p domain.Product, _ int) int64 { return p.ID }))

	mine, err := s.products.ListByVendor(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := s.products.ListByVendor(ctx, gofakeit.Email())
	require.NoError(t, err)
	assert.Empty(t, none)
}
