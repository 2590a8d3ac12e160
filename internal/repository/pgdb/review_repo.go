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

const reviewColumns = `id, product_id, user_email, user_name, comment, rating, created_at, updated_at`

type ReviewRepo struct {
	pool *pgxpool.Pool
	conv converter.ReviewConverter
}

func NewReviewRepo(pool *pgxpool.Pool, conv converter.ReviewConverter) *ReviewRepo {
	return &ReviewRepo{
		pool: pool,
		conv: conv,
	}
}

func (r *ReviewRepo) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (product_id, user_email, user_name, comment, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reviewColumns

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, query,
		review.ProductID, review.UserEmail, review.UserName, review.Comment, review.Rating,
	)
	if err != nil {
		if postgresForeignKey(err) {
			return nil, e.Wrap(fmt.Sprintf("product %d", review.ProductID), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ReviewModel])
	if err != nil {
		if postgresForeignKey(err) {
			return nil, e.Wrap(fmt.Sprintf("product %d", review.ProductID), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&model), nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	rows, err := tr.Executor(ctx, r.pool).Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.one(rows)
}

// ListByProduct возвращает отзывы продукта, новые первыми.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, query, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ReviewModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToArrEntity(models), nil
}

func (r *ReviewRepo) UpdateComment(ctx context.Context, id int64, comment string) (*domain.Review, error) {
	query := `UPDATE reviews SET comment = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + reviewColumns

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, query, id, comment)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.one(rows)
}

func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Executor(ctx, r.pool).Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.ErrReviewNotFound
	}

	return nil
}

func (r *ReviewRepo) one(rows pgx.Rows) (*domain.Review, error) {
	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ReviewModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrReviewNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&model), nil
}
