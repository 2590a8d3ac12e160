package domain_test

import (
	"testing"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func testProduct(price string) *domain.Product {
	p := domain.NewProduct("Potato", "Kawran Bazar", "", decimal.RequireFromString(price), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	p.ID = 42
	return p
}

func TestNewSettlement_ComputesTotalAndMinorUnits(t *testing.T) {
	buyer := domain.Identity{Email: "buyer@example.com", Name: "Buyer"}

	s, err := domain.NewSettlement(testProduct("20.00"), 3, buyer, currency.USD)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("60.00").Equal(s.TotalAmount))
	assert.Equal(t, int64(6000), s.AmountMinor)
	assert.Equal(t, "usd", s.Currency)
	assert.Equal(t, domain.SettlementInit, s.State)
	assert.Equal(t, int64(42), s.ProductID)
	assert.Equal(t, "Potato", s.ProductName)
	assert.Equal(t, "buyer@example.com", s.BuyerEmail)
}

func TestNewSettlement_ZeroDecimalCurrency(t *testing.T) {
	s, err := domain.NewSettlement(testProduct("150"), 2, domain.Identity{Email: "b@example.com"}, currency.JPY)
	require.NoError(t, err)
	assert.Equal(t, int64(300), s.AmountMinor)
	assert.Equal(t, "jpy", s.Currency)
}

func TestNewSettlement_InvalidQuantity(t *testing.T) {
	for _, q := range []int{0, -1} {
		_, err := domain.NewSettlement(testProduct("20"), q, domain.Identity{}, currency.USD)
		require.ErrorIs(t, err, e.ErrInvalidQuantity)
	}
}

func TestSettlement_Transitions(t *testing.T) {
	tests := []struct {
		from, to domain.SettlementState
		allowed  bool
	}{
		{domain.SettlementInit, domain.SettlementIntentCreated, true},
		{domain.SettlementInit, domain.SettlementFailed, true},
		{domain.SettlementInit, domain.SettlementAuthorized, false},
		{domain.SettlementIntentCreated, domain.SettlementAuthorized, true},
		{domain.SettlementIntentCreated, domain.SettlementFailed, true},
		{domain.SettlementIntentCreated, domain.SettlementOrderPersisted, false},
		{domain.SettlementAuthorized, domain.SettlementOrderPersisted, true},
		{domain.SettlementAuthorized, domain.SettlementFailed, true},
		{domain.SettlementOrderPersisted, domain.SettlementFailed, false},
		{domain.SettlementFailed, domain.SettlementAuthorized, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			s := &domain.Settlement{State: tt.from}

			err := s.Transition(tt.to)
			if !tt.allowed {
				require.ErrorIs(t, err, e.ErrInvalidTransition)
				assert.Equal(t, tt.from, s.State)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, s.State)
		})
	}
}

func TestSettlement_Fail(t *testing.T) {
	s := &domain.Settlement{State: domain.SettlementIntentCreated}

	require.NoError(t, s.Fail("card_declined"))
	assert.Equal(t, domain.SettlementFailed, s.State)
	assert.Equal(t, "card_declined", s.FailureReason)
	assert.True(t, s.State.Terminal())
}

func TestStateConflict(t *testing.T) {
	assert.ErrorIs(t, domain.StateConflict(domain.SettlementOrderPersisted), e.ErrSettlementCompleted)
	assert.ErrorIs(t, domain.StateConflict(domain.SettlementFailed), e.ErrSettlementFailed)
	assert.ErrorIs(t, domain.StateConflict(domain.SettlementAuthorized), e.ErrInvalidTransition)
}
