package domain

import (
	"math"
	"time"

	"github.com/DRSN-tech/market-backend/pkg/e"
)

// SortOrder: порядок сортировки каталога по цене за единицу.
type SortOrder string

const (
	SortInsertion SortOrder = ""
	SortAsc       SortOrder = "asc"
	SortDesc      SortOrder = "desc"
)

const (
	DefaultCatalogPage  = 1
	DefaultCatalogLimit = 6
	FeaturedLimit       = 6
)

func ToSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortInsertion, SortAsc, SortDesc:
		return SortOrder(s), nil
	default:
		return "", e.ErrInvalidSort
	}
}

// CatalogQuery: параметры выборки каталога.
// Start и End включительны и сравниваются с датой создания продукта.
type CatalogQuery struct {
	Sort   SortOrder
	Start  *time.Time
	End    *time.Time
	Status *ProductStatus
	Page   int
	Limit  int
}

func NewCatalogQuery() CatalogQuery {
	return CatalogQuery{Page: DefaultCatalogPage, Limit: DefaultCatalogLimit}
}

func (q CatalogQuery) Validate() error {
	if q.Limit <= 0 {
		return e.ErrInvalidLimit
	}

	if q.Page <= 0 {
		return e.ErrInvalidPage
	}

	if _, err := ToSortOrder(string(q.Sort)); err != nil {
		return err
	}

	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		return e.ErrInvalidDateRange
	}

	return nil
}

// Offset возвращает количество пропускаемых записей для текущей страницы.
// При переполнении возвращает math.MaxInt: такая страница заведомо пуста.
func (q CatalogQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// CatalogPage: страница каталога.
type CatalogPage struct {
	Products    []Product
	CurrentPage int
	TotalPages  int
	TotalItems  int
}

// TotalPages = ceil(total / limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
