package pgdb_test

import (
	"context"
	"errors"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var errRollback = errors.New("rollback")

func (s *repositorySuite) newSettlement(quantity int) *domain.Settlement {
	s.T().Helper()

	p := s.createProduct("vendor@example.com", "20.00", day("2024-03-01"), domain.ProductStatusApproved)
	buyer := domain.Identity{UID: gofakeit.UUID(), Email: gofakeit.Email(), Name: gofakeit.Name()}

	settlement, err := domain.NewSettlement(p, quantity, buyer, currency.USD)
	s.Require().NoError(err)
	s.Require().NoError(s.settlements.Create(s.T().Context(), settlement))
	return settlement
}

func (s *repositorySuite) TestSettlementRepo_Lifecycle() {
	t := s.T()
	ctx := t.Context()

	settlement := s.newSettlement(3)
	assert.False(t, settlement.CreatedAt.IsZero())

	got, err := s.settlements.GetByID(ctx, settlement.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementInit, got.State)
	assert.Empty(t, got.IntentID)
	assert.Equal(t, int64(6000), got.AmountMinor)
	assert.Equal(t, "usd", got.Currency)

	got.IntentID = "pi_123"
	require.NoError(t, got.Transition(domain.SettlementIntentCreated))
	require.NoError(t, s.settlements.Update(ctx, got, domain.SettlementInit))

	require.NoError(t, got.Transition(domain.SettlementAuthorized))
	got.NeedsReconciliation = true
	got.Attempts = 1
	require.NoError(t, s.settlements.Update(ctx, got, domain.SettlementIntentCreated))

	reread, err := s.settlements.GetByID(ctx, settlement.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", reread.IntentID)
	assert.Equal(t, domain.SettlementAuthorized, reread.State)
	assert.True(t, reread.NeedsReconciliation)
	assert.Equal(t, 1, reread.Attempts)
}

func (s *repositorySuite) TestSettlementRepo_NotFound() {
	t := s.T()
	ctx := t.Context()

	_, err := s.settlements.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, e.ErrSettlementNotFound)

	missing := &domain.Settlement{ID: uuid.New(), State: domain.SettlementFailed}
	require.ErrorIs(t, s.settlements.Update(ctx, missing, domain.SettlementAuthorized), e.ErrSettlementNotFound)
}

func (s *repositorySuite) TestSettlementRepo_ReconciliationQueues() {
	t := s.T()
	ctx := t.Context()

	authorized := s.newSettlement(1)
	authorized.IntentID = "pi_auth"
	authorized.State = domain.SettlementAuthorized
	authorized.NeedsReconciliation = true
	require.NoError(t, s.settlements.Update(ctx, authorized, domain.SettlementInit))

	exhausted := s.newSettlement(1)
	exhausted.IntentID = "pi_failed"
	exhausted.State = domain.SettlementFailed
	exhausted.NeedsReconciliation = true
	require.NoError(t, s.settlements.Update(ctx, exhausted, domain.SettlementInit))

	s.newSettlement(1)

	due, err := s.settlements.ListForReconciliation(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{authorized.ID}, lo.Map(due, func(st domain.Settlement, _ int) uuid.UUID { return st.ID }))

	flagged, err := s.settlements.ListFlagged(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{authorized.ID, exhausted.ID}, lo.Map(flagged, func(st domain.Settlement, _ int) uuid.UUID { return st.ID }))
}

func (s *repositorySuite) TestSettlementRepo_UpdateInsideRolledBackTransaction() {
	t := s.T()
	ctx := t.Context()

	settlement := s.newSettlement(2)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		settlement.State = domain.SettlementFailed
		if err := s.settlements.Update(ctx, settlement, domain.SettlementInit); err != nil {
			return err
		}
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	got, err := s.settlements.GetByID(ctx, settlement.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementInit, got.State)
}

func (s *repositorySuite) TestSettlementRepo_UpdateRejectsStaleState() {
	t := s.T()
	ctx := t.Context()

	settlement := s.newSettlement(1)
	settlement.IntentID = "pi_stale"
	require.NoError(t, settlement.Transition(domain.SettlementIntentCreated))
	require.NoError(t, s.settlements.Update(ctx, settlement, domain.SettlementInit))

	// Первый вызов доводит расчёт до ORDER_PERSISTED.
	first := *settlement
	require.NoError(t, first.Transition(domain.SettlementAuthorized))
	require.NoError(t, s.settlements.Update(ctx, &first, domain.SettlementIntentCreated))
	require.NoError(t, first.Transition(domain.SettlementOrderPersisted))
	require.NoError(t, s.settlements.Update(ctx, &first, domain.SettlementAuthorized))

	// Второй вызов прочитал INTENT_CREATED раньше и пытается записать AUTHORIZED с флагом сверки.
	second := *settlement
	require.NoError(t, second.Transition(domain.SettlementAuthorized))
	second.NeedsReconciliation = true
	require.ErrorIs(t, s.settlements.Update(ctx, &second, domain.SettlementIntentCreated), e.ErrSettlementCompleted)

	got, err := s.settlements.GetByID(ctx, settlement.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementOrderPersisted, got.State)
	assert.False(t, got.NeedsReconciliation)
}
