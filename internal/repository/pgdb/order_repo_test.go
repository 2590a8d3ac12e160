package pgdb_test

import (
	"fmt"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *repositorySuite) TestOrderRepo_CreateOncePerSettlement() {
	t := s.T()
	ctx := t.Context()

	settlement := s.newSettlement(3)
	settlement.IntentID = "pi_once"

	order := domain.OrderFromSettlement(settlement)
	created, err := s.orders.Create(ctx, order)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	diff := cmp.Diff(order, created, decimalComparer, cmpopts.IgnoreFields(domain.Order{}, "ID", "CreatedAt"))
	assert.Empty(t, diff)

	_, err = s.orders.Create(ctx, domain.OrderFromSettlement(settlement))
	require.ErrorIs(t, err, e.ErrSettlementCompleted)

	mine, err := s.orders.ListByBuyer(ctx, settlement.BuyerEmail)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "pi_once", mine[0].TransactionID)
}

func (s *repositorySuite) TestOrderRepo_Search() {
	t := s.T()
	ctx := t.Context()

	names := []string{"Maria Lopez", "MARIO Rossi", "Ann 100% Real"}
	ids := make(map[string]int64, len(names))
	for i, name := range names {
		settlement := s.newSettlement(1)
		settlement.BuyerName = name
		settlement.BuyerEmail = fmt.Sprintf("buyer-%d@example.com", i)
		settlement.IntentID = "pi_search_" + string(rune('a'+i))

		created, err := s.orders.Create(ctx, domain.OrderFromSettlement(settlement))
		require.NoError(t, err)
		ids[name] = created.ID
	}

	tests := []struct {
		name   string
		search string
		want   []int64
	}{
		{name: "case insensitive substring", search: "mari", want: []int64{ids["Maria Lopez"], ids["MARIO Rossi"]}},
		{name: "percent is literal", search: "100%", want: []int64{ids["Ann 100% Real"]}},
		{name: "wildcard underscore is literal", search: "_", want: nil},
		{name: "empty returns all", search: "  ", want: lo.Values(ids)},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.orders.Search(s.T().Context(), tt.search)
			require.NoError(s.T(), err)
			assert.ElementsMatch(s.T(), tt.want, lo.Map(got, func(o domain.Order, _ int) int64 { return o.ID }))
		})
	}
}
