package usecase

import (
	"context"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
)

// CatalogUseCase отдаёт постраничные выборки каталога.
// PricePerUnit в выдаче: снимок на момент запроса.
type CatalogUseCase struct {
	productRepo ProductRepository
}

func NewCatalogUC(productRepo ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{productRepo: productRepo}
}

// ListProducts применяет фильтр по дате, затем сортировку по цене, затем пагинацию.
// Страница за пределами диапазона возвращается пустой.
func (c *CatalogUseCase) ListProducts(ctx context.Context, query domain.CatalogQuery) (*domain.CatalogPage, error) {
	const op = "CatalogUseCase.ListProducts"

	if err := query.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	products, total, err := c.productRepo.List(ctx, query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return &domain.CatalogPage{
		Products:    products,
		CurrentPage: query.Page,
		TotalPages:  domain.TotalPages(total, query.Limit),
		TotalItems:  total,
	}, nil
}

// FeaturedProducts возвращает последние одобренные продукты для главной страницы.
func (c *CatalogUseCase) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogUseCase.FeaturedProducts"

	products, err := c.productRepo.ListFeatured(ctx, domain.FeaturedLimit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}
