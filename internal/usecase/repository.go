package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateStatus(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, query domain.CatalogQuery) ([]domain.Product, int, error)
	ListByVendor(ctx context.Context, vendorEmail string) ([]domain.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]domain.Product, error)
}

type PriceRepository interface {
	Append(ctx context.Context, productID int64, sample domain.PriceSample) error
	Replace(ctx context.Context, productID int64, series domain.PriceSeries) error
	Read(ctx context.Context, productID int64) (domain.PriceSeries, error)
}

type SettlementRepository interface {
	Create(ctx context.Context, settlement *domain.Settlement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
	// Update пишет расчёт, только если в хранилище он всё ещё в состоянии from.
	Update(ctx context.Context, settlement *domain.Settlement, from domain.SettlementState) error
	ListForReconciliation(ctx context.Context, limit int) ([]domain.Settlement, error)
	ListFlagged(ctx context.Context) ([]domain.Settlement, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error)
	Search(ctx context.Context, search string) ([]domain.Order, error)
}

type WatchlistRepository interface {
	Create(ctx context.Context, entry *domain.WatchlistEntry) (*domain.WatchlistEntry, error)
	ListByUser(ctx context.Context, userEmail string) ([]domain.WatchlistEntry, error)
	Delete(ctx context.Context, id int64, userEmail string) error
}

type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Search(ctx context.Context, search string) ([]domain.User, error)
	UpdateName(ctx context.Context, email, name string) (*domain.User, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	UpdateComment(ctx context.Context, id int64, comment string) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64) error
	ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CacheRepository: кэш карточек продуктов. История цен в кэш не попадает.
type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

// ReceiptRepository: объектное хранилище чеков.
type ReceiptRepository interface {
	Upload(ctx context.Context, receipt *domain.Receipt) (string, error)
}
