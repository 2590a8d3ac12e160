package usecase

import (
	"context"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/google/uuid"
)

type PriceUC interface {
	AppendPrice(ctx context.Context, req *AppendPriceReq) (*domain.PriceSample, error)
	ReplacePrices(ctx context.Context, req *ReplacePricesReq) (domain.PriceSeries, error)
	GetPrices(ctx context.Context, productID int64) (domain.PriceSeries, error)
	ComparePrices(ctx context.Context, req *ComparePricesReq) (*domain.PriceComparison, error)
}

type CatalogUC interface {
	ListProducts(ctx context.Context, query domain.CatalogQuery) (*domain.CatalogPage, error)
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
}

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, req *DeleteProductReq) error
	ListVendorProducts(ctx context.Context, vendorEmail string) ([]domain.Product, error)
	UpdateStatus(ctx context.Context, req *UpdateStatusReq) (*domain.Product, error)
}

type SettlementUC interface {
	CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentReq) (*CreatePaymentIntentRes, error)
	SettleOrder(ctx context.Context, req *SettleOrderReq) (*domain.Order, error)
	GetSettlement(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
	ListPendingReconciliation(ctx context.Context) ([]domain.Settlement, error)
	Reconcile(ctx context.Context, limit int) (int, error)
}

type OrderUC interface {
	ListBuyerOrders(ctx context.Context, buyerEmail string) ([]domain.Order, error)
	SearchOrders(ctx context.Context, search string) ([]domain.Order, error)
}

type WatchlistUC interface {
	AddToWatchlist(ctx context.Context, req *AddToWatchlistReq) (*domain.WatchlistEntry, error)
	ListWatchlist(ctx context.Context, userEmail string) ([]domain.WatchlistEntry, error)
	RemoveFromWatchlist(ctx context.Context, id int64, userEmail string) error
}

type UserUC interface {
	RegisterUser(ctx context.Context, identity domain.Identity) (*domain.User, error)
	GetRole(ctx context.Context, email string) (domain.Role, error)
	ListUsers(ctx context.Context, search string) ([]domain.User, error)
	UpdateName(ctx context.Context, email, name string) (*domain.User, error)
}

type ReviewUC interface {
	AddReview(ctx context.Context, req *AddReviewReq) (*domain.Review, error)
	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
	UpdateReview(ctx context.Context, req *UpdateReviewReq) (*domain.Review, error)
	DeleteReview(ctx context.Context, req *DeleteReviewReq) error
}
