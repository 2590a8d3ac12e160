package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const settlementColumns = `
	id, product_id, product_name, market_name, buyer_email, buyer_name,
	quantity, unit_price, total_amount, amount_minor, currency, intent_id,
	state, needs_reconciliation, failure_reason, attempts, created_at, updated_at`

type SettlementRepo struct {
	pool *pgxpool.Pool
	conv converter.SettlementConverter
}

func NewSettlementRepo(pool *pgxpool.Pool, conv converter.SettlementConverter) *SettlementRepo {
	return &SettlementRepo{
		pool: pool,
		conv: conv,
	}
}

func (s *SettlementRepo) Create(ctx context.Context, settlement *domain.Settlement) error {
	model := s.conv.ToModel(settlement)
	query := `
		INSERT INTO settlements (
			id, product_id, product_name, market_name, buyer_email, buyer_name,
			quantity, unit_price, total_amount, amount_minor, currency, intent_id,
			state, needs_reconciliation, failure_reason, attempts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at;
	`

	err := tr.Executor(ctx, s.pool).QueryRow(ctx, query,
		model.ID,
		model.ProductID,
		model.ProductName,
		model.MarketName,
		model.BuyerEmail,
		model.BuyerName,
		model.Quantity,
		model.UnitPrice,
		model.TotalAmount,
		model.AmountMinor,
		model.Currency,
		model.IntentID,
		model.State,
		model.NeedsReconciliation,
		model.FailureReason,
		model.Attempts,
	).Scan(&settlement.CreatedAt, &settlement.UpdatedAt)
	if err != nil {
		if postgresDuplicate(err) {
			return fmt.Errorf("%s: settlement %s already exists", whereami.WhereAmI(), settlement.ID)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *SettlementRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	rows, err := tr.Executor(ctx, s.pool).Query(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.SettlementModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(id.String(), e.ErrSettlementNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}

// Update сохраняет изменяемую часть расчёта: intent, состояние и флаги сверки.
// Запись проходит, только если в БД расчёт всё ещё в состоянии from; иначе возвращается
// ошибка по текущему состоянию (domain.StateConflict).
func (s *SettlementRepo) Update(ctx context.Context, settlement *domain.Settlement, from domain.SettlementState) error {
	model := s.conv.ToModel(settlement)
	query := `
		UPDATE settlements SET
			intent_id = $2,
			state = $3,
			needs_reconciliation = $4,
			failure_reason = $5,
			attempts = $6,
			updated_at = NOW()
		WHERE id = $1 AND state = $7
		RETURNING updated_at;
	`

	err := tr.Executor(ctx, s.pool).QueryRow(ctx, query,
		model.ID,
		model.IntentID,
		model.State,
		model.NeedsReconciliation,
		model.FailureReason,
		model.Attempts,
		string(from),
	).Scan(&settlement.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.staleUpdate(ctx, settlement.ID)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// staleUpdate объясняет, почему условный UPDATE не затронул ни одной строки.
func (s *SettlementRepo) staleUpdate(ctx context.Context, id uuid.UUID) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return e.Wrap(id.String(), domain.StateConflict(current.State))
}

// ListForReconciliation отдаёт авторизованные расчёты с флагом сверки, самые старые первыми.
func (s *SettlementRepo) ListForReconciliation(ctx context.Context, limit int) ([]domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE needs_reconciliation AND state = $1
		ORDER BY updated_at, id
		LIMIT $2`

	return s.collect(ctx, query, string(domain.SettlementAuthorized), limit)
}

// ListFlagged отдаёт все расчёты, требующие внимания администратора.
func (s *SettlementRepo) ListFlagged(ctx context.Context) ([]domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE needs_reconciliation ORDER BY created_at, id`

	return s.collect(ctx, query)
}

func (s *SettlementRepo) collect(ctx context.Context, query string, args ...any) ([]domain.Settlement, error) {
	rows, err := tr.Executor(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.SettlementModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToArrEntity(models), nil
}
