package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	id, item_name, market_name, market_description, price_per_unit,
	vendor_email, vendor_name, status, rejection_reason, rejection_feedback,
	created_on, created_at, updated_at`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет продукт без истории цен.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (
			item_name, market_name, market_description, price_per_unit,
			vendor_email, vendor_name, status, created_on
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at;
	`

	err := tr.Executor(ctx, p.pool).QueryRow(ctx, query,
		model.ItemName,
		model.MarketName,
		model.MarketDescription,
		model.PricePerUnit,
		model.VendorEmail,
		model.VendorName,
		model.Status,
		model.CreatedOn,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	rows, err := tr.Executor(ctx, p.pool).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(fmt.Sprintf("product %d", id), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Update заменяет атрибуты продукта. Статус модерации и вендор не меняются.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products SET
			item_name = $2,
			market_name = $3,
			market_description = $4,
			price_per_unit = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at;
	`

	err := tr.Executor(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.ItemName, model.MarketName, model.MarketDescription, model.PricePerUnit,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e.ErrProductNotFound
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) UpdateStatus(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products SET
			status = $2,
			rejection_reason = $3,
			rejection_feedback = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at;
	`

	err := tr.Executor(ctx, p.pool).QueryRow(ctx, query,
		product.ID, string(product.Status), product.RejectionReason, product.RejectionFeedback,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e.ErrProductNotFound
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет продукт; серия цен и записи watchlist удаляются каскадно.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Executor(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// List фильтрует по дате создания и статусу, сортирует по цене и отдаёт одну страницу.
// При равной цене порядок определяется id, поэтому страницы не пересекаются.
func (p *ProductRepo) List(ctx context.Context, q domain.CatalogQuery) ([]domain.Product, int, error) {
	where, args := catalogFilter(q)
	db := tr.Executor(ctx, p.pool)

	var total int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	if total == 0 || q.Offset() >= total {
		return []domain.Product{}, total, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, catalogOrder(q.Sort), len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), total, nil
}

func (p *ProductRepo) ListByVendor(ctx context.Context, vendorEmail string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE vendor_email = $1 ORDER BY created_at DESC, id DESC`

	return p.collect(ctx, query, vendorEmail)
}

// ListFeatured возвращает последние по дате одобренные продукты.
func (p *ProductRepo) ListFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = $1 ORDER BY created_on DESC, id DESC LIMIT $2`

	return p.collect(ctx, query, string(domain.ProductStatusApproved), limit)
}

func (p *ProductRepo) collect(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := tr.Executor(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func catalogFilter(q domain.CatalogQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.Start != nil {
		args = append(args, *q.Start)
		conds = append(conds, fmt.Sprintf("created_on >= $%d", len(args)))
	}
	if q.End != nil {
		args = append(args, *q.End)
		conds = append(conds, fmt.Sprintf("created_on <= $%d", len(args)))
	}
	if q.Status != nil {
		args = append(args, string(*q.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func catalogOrder(sort domain.SortOrder) string {
	switch sort {
	case domain.SortAsc:
		return "price_per_unit ASC, id ASC"
	case domain.SortDesc:
		return "price_per_unit DESC, id ASC"
	default:
		return "id ASC"
	}
}
