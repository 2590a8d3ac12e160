package http

import (
	"context"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/google/uuid"
)

type fakeProductUC struct {
	create       func(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error)
	get          func(ctx context.Context, id int64) (*domain.Product, error)
	update       func(ctx context.Context, req *usecase.UpdateProductReq) (*domain.Product, error)
	remove       func(ctx context.Context, req *usecase.DeleteProductReq) error
	listByVendor func(ctx context.Context, vendorEmail string) ([]domain.Product, error)
	updateStatus func(ctx context.Context, req *usecase.UpdateStatusReq) (*domain.Product, error)
}

func (f *fakeProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	return f.create(ctx, req)
}

func (f *fakeProductUC) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return f.get(ctx, id)
}

func (f *fakeProductUC) UpdateProduct(ctx context.Context, req *usecase.UpdateProductReq) (*domain.Product, error) {
	return f.update(ctx, req)
}

func (f *fakeProductUC) DeleteProduct(ctx context.Context, req *usecase.DeleteProductReq) error {
	return f.remove(ctx, req)
}

func (f *fakeProductUC) ListVendorProducts(ctx context.Context, vendorEmail string) ([]domain.Product, error) {
	return f.listByVendor(ctx, vendorEmail)
}

func (f *fakeProductUC) UpdateStatus(ctx context.Context, req *usecase.UpdateStatusReq) (*domain.Product, error) {
	return f.updateStatus(ctx, req)
}

type fakeCatalogUC struct {
	list     func(ctx context.Context, query domain.CatalogQuery) (*domain.CatalogPage, error)
	featured func(ctx context.Context) ([]domain.Product, error)
}

func (f *fakeCatalogUC) ListProducts(ctx context.Context, query domain.CatalogQuery) (*domain.CatalogPage, error) {
	return f.list(ctx, query)
}

func (f *fakeCatalogUC) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	return f.featured(ctx)
}

type fakePriceUC struct {
	appendFn func(ctx context.Context, req *usecase.AppendPriceReq) (*domain.PriceSample, error)
	replace  func(ctx context.Context, req *usecase.ReplacePricesReq) (domain.PriceSeries, error)
	get      func(ctx context.Context, productID int64) (domain.PriceSeries, error)
	compare  func(ctx context.Context, req *usecase.ComparePricesReq) (*domain.PriceComparison, error)
}

func (f *fakePriceUC) AppendPrice(ctx context.Context, req *usecase.AppendPriceReq) (*domain.PriceSample, error) {
	return f.appendFn(ctx, req)
}

func (f *fakePriceUC) ReplacePrices(ctx context.Context, req *usecase.ReplacePricesReq) (domain.PriceSeries, error) {
	return f.replace(ctx, req)
}

func (f *fakePriceUC) GetPrices(ctx context.Context, productID int64) (domain.PriceSeries, error) {
	return f.get(ctx, productID)
}

func (f *fakePriceUC) ComparePrices(ctx context.Context, req *usecase.ComparePricesReq) (*domain.PriceComparison, error) {
	return f.compare(ctx, req)
}

type fakeSettlementUC struct {
	createIntent func(ctx context.Context, req *usecase.CreatePaymentIntentReq) (*usecase.CreatePaymentIntentRes, error)
	settle       func(ctx context.Context, req *usecase.SettleOrderReq) (*domain.Order, error)
	pending      func(ctx context.Context) ([]domain.Settlement, error)
}

func (f *fakeSettlementUC) CreatePaymentIntent(ctx context.Context, req *usecase.CreatePaymentIntentReq) (*usecase.CreatePaymentIntentRes, error) {
	return f.createIntent(ctx, req)
}

func (f *fakeSettlementUC) SettleOrder(ctx context.Context, req *usecase.SettleOrderReq) (*domain.Order, error) {
	return f.settle(ctx, req)
}

func (f *fakeSettlementUC) GetSettlement(context.Context, uuid.UUID) (*domain.Settlement, error) {
	return nil, e.ErrSettlementNotFound
}

func (f *fakeSettlementUC) ListPendingReconciliation(ctx context.Context) ([]domain.Settlement, error) {
	return f.pending(ctx)
}

func (f *fakeSettlementUC) Reconcile(context.Context, int) (int, error) {
	return 0, nil
}

type fakeOrderUC struct {
	listByBuyer func(ctx context.Context, buyerEmail string) ([]domain.Order, error)
	search      func(ctx context.Context, search string) ([]domain.Order, error)
}

func (f *fakeOrderUC) ListBuyerOrders(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	return f.listByBuyer(ctx, buyerEmail)
}

func (f *fakeOrderUC) SearchOrders(ctx context.Context, search string) ([]domain.Order, error) {
	return f.search(ctx, search)
}

type fakeWatchlistUC struct {
	add    func(ctx context.Context, req *usecase.AddToWatchlistReq) (*domain.WatchlistEntry, error)
	list   func(ctx context.Context, userEmail string) ([]domain.WatchlistEntry, error)
	remove func(ctx context.Context, id int64, userEmail string) error
}

func (f *fakeWatchlistUC) AddToWatchlist(ctx context.Context, req *usecase.AddToWatchlistReq) (*domain.WatchlistEntry, error) {
	return f.add(ctx, req)
}

func (f *fakeWatchlistUC) ListWatchlist(ctx context.Context, userEmail string) ([]domain.WatchlistEntry, error) {
	return f.list(ctx, userEmail)
}

func (f *fakeWatchlistUC) RemoveFromWatchlist(ctx context.Context, id int64, userEmail string) error {
	return f.remove(ctx, id, userEmail)
}

// fakeUserUC хранит роли по email. Отсутствующий email: ErrUserNotFound.
type fakeUserUC struct {
	roles      map[string]domain.Role
	registered []domain.Identity
	list       func(ctx context.Context, search string) ([]domain.User, error)
	updateName func(ctx context.Context, email, name string) (*domain.User, error)
}

func (f *fakeUserUC) RegisterUser(_ context.Context, identity domain.Identity) (*domain.User, error) {
	f.registered = append(f.registered, identity)

	role, ok := f.roles[identity.Email]
	if !ok {
		role = domain.RoleUser
	}
	return &domain.User{Email: identity.Email, Name: identity.Name, Role: role}, nil
}

func (f *fakeUserUC) GetRole(_ context.Context, email string) (domain.Role, error) {
	role, ok := f.roles[email]
	if !ok {
		return "", e.Wrap("fakeUserUC.GetRole", e.ErrUserNotFound)
	}
	return role, nil
}

func (f *fakeUserUC) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	return f.list(ctx, search)
}

func (f *fakeUserUC) UpdateName(ctx context.Context, email, name string) (*domain.User, error) {
	return f.updateName(ctx, email, name)
}

type fakeReviewUC struct {
	add    func(ctx context.Context, req *usecase.AddReviewReq) (*domain.Review, error)
	list   func(ctx context.Context, productID int64) ([]domain.Review, error)
	update func(ctx context.Context, req *usecase.UpdateReviewReq) (*domain.Review, error)
	remove func(ctx context.Context, req *usecase.DeleteReviewReq) error
}

func (f *fakeReviewUC) AddReview(ctx context.Context, req *usecase.AddReviewReq) (*domain.Review, error) {
	return f.add(ctx, req)
}

func (f *fakeReviewUC) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	return f.list(ctx, productID)
}

func (f *fakeReviewUC) UpdateReview(ctx context.Context, req *usecase.UpdateReviewReq) (*domain.Review, error) {
	return f.update(ctx, req)
}

func (f *fakeReviewUC) DeleteReview(ctx context.Context, req *usecase.DeleteReviewReq) error {
	return f.remove(ctx, req)
}

// fakeVerifier принимает токен вида "token:<email>".
type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(_ context.Context, token string) (*domain.Identity, error) {
	const prefix = "token:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, e.ErrUnauthenticated
	}

	email := token[len(prefix):]
	return &domain.Identity{UID: "uid-" + email, Email: email, Name: "Name " + email}, nil
}
