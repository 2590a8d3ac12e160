package http

import (
	_ "github.com/DRSN-tech/market-backend/docs" // Регистрация описания API
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// UseCases: зависимости HTTP-слоя.
type UseCases struct {
	Product    usecase.ProductUC
	Catalog    usecase.CatalogUC
	Price      usecase.PriceUC
	Settlement usecase.SettlementUC
	Order      usecase.OrderUC
	Watchlist  usecase.WatchlistUC
	User       usecase.UserUC
	Review     usecase.ReviewUC
	Identity   usecase.IdentityVerifier
}

type Router struct {
	router     *chi.Mux
	logger     logger.Logger
	swaggerURL string
}

func NewRouter(router *chi.Mux, logger logger.Logger, swaggerURL string) *Router {
	return &Router{router: router, logger: logger, swaggerURL: swaggerURL}
}

func (r *Router) Init(uc UseCases) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(withLogging(r.logger))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.swaggerURL),
	))

	auth := NewAuth(uc.Identity, uc.User, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(uc.Product, uc.Catalog, r.logger)
		priceHandler := NewPriceHandler(uc.Price, r.logger)
		reviewHandler := NewReviewHandler(uc.Review, r.logger)
		v1.Route("/products", func(pr chi.Router) {
			registerProductRoutes(pr, auth, prHandler)
			pr.Route("/{id}/prices", func(prices chi.Router) {
				registerPriceRoutes(prices, auth, priceHandler)
			})
			pr.Route("/{id}/reviews", func(reviews chi.Router) {
				reviews.Use(auth.Authenticate)
				reviews.Get("/", reviewHandler.listReviews)
				reviews.Post("/", reviewHandler.addReview)
			})
		})
		registerReviewRoutes(v1, auth, reviewHandler)
		v1.With(auth.Authenticate, auth.RequireRole(domain.RoleVendor)).
			Get("/vendor/products", prHandler.listVendorProducts)

		registerOrderRoutes(v1, auth, NewOrderHandler(uc.Settlement, uc.Order, r.logger))
		registerWatchlistRoutes(v1, auth, NewWatchlistHandler(uc.Watchlist, r.logger))
		registerUserRoutes(v1, auth, NewUserHandler(uc.User, r.logger))
	})
}

func registerProductRoutes(pr chi.Router, auth *Auth, h *ProductHandler) {
	pr.Get("/", h.listProducts)
	pr.Get("/featured", h.featuredProducts)
	pr.Get("/{id}", h.getProduct)

	pr.Group(func(vendor chi.Router) {
		vendor.Use(auth.Authenticate, auth.RequireRole(domain.RoleVendor))
		vendor.Post("/", h.createProduct)
		vendor.Put("/{id}", h.updateProduct)
	})

	pr.With(auth.Authenticate, auth.RequireRole(domain.RoleVendor, domain.RoleAdmin)).
		Delete("/{id}", h.deleteProduct)
	pr.With(auth.Authenticate, auth.RequireRole(domain.RoleAdmin)).
		Patch("/{id}/status", h.updateStatus)
}

// registerPriceRoutes регистрирует маршруты внутри /products/{id}/prices.
func registerPriceRoutes(pr chi.Router, auth *Auth, h *PriceHandler) {
	pr.Get("/", h.getPrices)
	pr.Get("/compare", h.comparePrices)

	pr.Group(func(vendor chi.Router) {
		vendor.Use(auth.Authenticate, auth.RequireRole(domain.RoleVendor))
		vendor.Post("/", h.appendPrice)
		vendor.Put("/", h.replacePrices)
	})
}

func registerOrderRoutes(router chi.Router, auth *Auth, h *OrderHandler) {
	router.Group(func(authed chi.Router) {
		authed.Use(auth.Authenticate)
		authed.Post("/payments/intents", h.createPaymentIntent)
		authed.Post("/orders", h.settleOrder)
		authed.Get("/orders", h.listOrders)
	})

	router.Route("/admin", func(admin chi.Router) {
		admin.Use(auth.Authenticate, auth.RequireRole(domain.RoleAdmin))
		admin.Get("/orders", h.searchOrders)
		admin.Get("/settlements/reconciliation", h.listReconciliation)
	})
}

func registerWatchlistRoutes(router chi.Router, auth *Auth, h *WatchlistHandler) {
	router.Route("/watchlist", func(wl chi.Router) {
		wl.Use(auth.Authenticate)
		wl.Get("/", h.listWatchlist)
		wl.Post("/", h.addToWatchlist)
		wl.Delete("/{id}", h.removeFromWatchlist)
	})
}

// registerReviewRoutes: правка и удаление отзыва по его ID. Роль нужна, чтобы администратор мог удалить чужой отзыв.
func registerReviewRoutes(router chi.Router, auth *Auth, h *ReviewHandler) {
	router.Route("/reviews/{id}", func(rv chi.Router) {
		rv.Use(auth.Authenticate, auth.RequireRole(domain.RoleUser, domain.RoleVendor, domain.RoleAdmin))
		rv.Patch("/", h.updateReview)
		rv.Delete("/", h.deleteReview)
	})
}

func registerUserRoutes(router chi.Router, auth *Auth, h *UserHandler) {
	router.Route("/users", func(u chi.Router) {
		u.Get("/role/{email}", h.getRole)
		u.With(auth.Authenticate).Post("/", h.registerUser)
		u.With(auth.Authenticate).Patch("/me", h.updateMe)
		u.With(auth.Authenticate, auth.RequireRole(domain.RoleAdmin)).Get("/", h.listUsers)
	})
}
