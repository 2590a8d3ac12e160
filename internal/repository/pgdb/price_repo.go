package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// PriceRepo хранит журнал наблюдений цены. Порядок вставки задаётся id.
type PriceRepo struct {
	pool *pgxpool.Pool
	conv converter.PriceSampleConverter
}

func NewPriceRepo(pool *pgxpool.Pool, conv converter.PriceSampleConverter) *PriceRepo {
	return &PriceRepo{
		pool: pool,
		conv: conv,
	}
}

// Append дописывает одно наблюдение в конец серии.
func (p *PriceRepo) Append(ctx context.Context, productID int64, sample domain.PriceSample) error {
	query := `INSERT INTO price_samples (product_id, sample_date, price) VALUES ($1, $2, $3)`

	if _, err := tr.Executor(ctx, p.pool).Exec(ctx, query, productID, sample.Date, sample.Price); err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(fmt.Sprintf("product %d", productID), e.ErrProductNotFound)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Replace заменяет серию целиком. Вызывается внутри транзакции, иначе
// открывает собственную, чтобы читатели не увидели частичную серию.
func (p *PriceRepo) Replace(ctx context.Context, productID int64, series domain.PriceSeries) error {
	if _, err := tr.TxFromCtx(ctx); err != nil {
		tx, err := p.pool.Begin(ctx)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		defer tx.Rollback(ctx)

		if err := p.replace(tr.WithTx(ctx, tx), productID, series); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		return nil
	}

	return p.replace(ctx, productID, series)
}

func (p *PriceRepo) replace(ctx context.Context, productID int64, series domain.PriceSeries) error {
	db := tr.Executor(ctx, p.pool)

	// Блокировка строки продукта сериализует конкурентные замены.
	var id int64
	err := db.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e.Wrap(fmt.Sprintf("product %d", productID), e.ErrProductNotFound)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := db.Exec(ctx, `DELETE FROM price_samples WHERE product_id = $1`, productID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(series) == 0 {
		return nil
	}

	dates := make([]string, 0, len(series))
	prices := make([]string, 0, len(series))
	for _, s := range series {
		dates = append(dates, s.DateString())
		prices = append(prices, s.Price.StringFixed(2))
	}

	query := `
		INSERT INTO price_samples (product_id, sample_date, price)
		SELECT $1, t.d::date, t.p::numeric
		FROM unnest($2::text[], $3::text[]) WITH ORDINALITY AS t(d, p, ord)
		ORDER BY t.ord
	`
	if _, err := db.Exec(ctx, query, productID, dates, prices); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Read возвращает серию в порядке вставки. Для продукта без наблюдений это пустая серия.
func (p *PriceRepo) Read(ctx context.Context, productID int64) (domain.PriceSeries, error) {
	db := tr.Executor(ctx, p.pool)

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if !exists {
		return nil, e.Wrap(fmt.Sprintf("product %d", productID), e.ErrProductNotFound)
	}

	rows, err := db.Query(ctx, `
		SELECT id, product_id, sample_date, price
		FROM price_samples
		WHERE product_id = $1
		ORDER BY id
	`, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.PriceSampleModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToSeries(models), nil
}
