package pgdb

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

type WatchlistRepo struct {
	pool *pgxpool.Pool
	conv converter.WatchlistConverter
}

func NewWatchlistRepo(pool *pgxpool.Pool, conv converter.WatchlistConverter) *WatchlistRepo {
	return &WatchlistRepo{
		pool: pool,
		conv: conv,
	}
}

func (w *WatchlistRepo) Create(ctx context.Context, entry *domain.WatchlistEntry) (*domain.WatchlistEntry, error) {
	query := `
		INSERT INTO watchlist (user_email, product_id, product_name, market_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	created := *entry
	err := tr.Executor(ctx, w.pool).QueryRow(ctx, query,
		entry.UserEmail, entry.ProductID, entry.ProductName, entry.MarketName,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		switch {
		case postgresDuplicate(err):
			return nil, e.ErrAlreadyInWatchlist
		case postgresForeignKey(err):
			return nil, e.Wrap(fmt.Sprintf("product %d", entry.ProductID), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &created, nil
}

func (w *WatchlistRepo) ListByUser(ctx context.Context, userEmail string) ([]domain.WatchlistEntry, error) {
	query := `
		SELECT id, user_email, product_id, product_name, market_name, created_at
		FROM watchlist
		WHERE user_email = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := tr.Executor(ctx, w.pool).Query(ctx, query, userEmail)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.WatchlistModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return w.conv.ToArrEntity(models), nil
}

// Delete удаляет запись только своего владельца.
func (w *WatchlistRepo) Delete(ctx context.Context, id int64, userEmail string) error {
	tag, err := tr.Executor(ctx, w.pool).Exec(ctx, `DELETE FROM watchlist WHERE id = $1 AND user_email = $2`, id, userEmail)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.ErrWatchlistNotFound
	}

	return nil
}
