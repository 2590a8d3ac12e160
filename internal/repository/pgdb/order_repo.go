package pgdb

import (
	"context"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const orderColumns = `
	id, settlement_id, product_id, product_name, market_name, unit_price,
	quantity, total_amount, currency, transaction_id, buyer_email, buyer_name,
	status, created_at`

type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// Create записывает заказ. Один расчёт даёт не больше одного заказа.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	model := o.conv.ToModel(order)
	query := `
		INSERT INTO orders (
			settlement_id, product_id, product_name, market_name, unit_price,
			quantity, total_amount, currency, transaction_id, buyer_email,
			buyer_name, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at;
	`

	err := tr.Executor(ctx, o.pool).QueryRow(ctx, query,
		model.SettlementID,
		model.ProductID,
		model.ProductName,
		model.MarketName,
		model.UnitPrice,
		model.Quantity,
		model.TotalAmount,
		model.Currency,
		model.TransactionID,
		model.BuyerEmail,
		model.BuyerName,
		model.Status,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(model.SettlementID.String(), e.ErrSettlementCompleted)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

func (o *OrderRepo) ListByBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_email = $1 ORDER BY created_at DESC, id DESC`

	return o.collect(ctx, query, buyerEmail)
}

// Search ищет по подстроке имени или email покупателя без учёта регистра.
// Пустая строка возвращает все заказы.
func (o *OrderRepo) Search(ctx context.Context, search string) ([]domain.Order, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return o.collect(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	}

	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE buyer_name ILIKE $1 OR buyer_email ILIKE $1
		ORDER BY created_at DESC, id DESC`

	return o.collect(ctx, query, containsPattern(search))
}

func (o *OrderRepo) collect(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := tr.Executor(ctx, o.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.OrderModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}
