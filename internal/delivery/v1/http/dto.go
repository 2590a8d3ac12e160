package http

import (
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// REQUESTS

type priceSampleDTO struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

type createProductRequest struct {
	ItemName          string           `json:"item_name"`
	MarketName        string           `json:"market_name"`
	MarketDescription string           `json:"market_description"`
	PricePerUnit      decimal.Decimal  `json:"price_per_unit"`
	CreatedOn         string           `json:"created_on"`
	Prices            []priceSampleDTO `json:"prices"`
}

// updateProductRequest: отсутствующее поле prices оставляет серию без изменений.
type updateProductRequest struct {
	ItemName          string            `json:"item_name"`
	MarketName        string            `json:"market_name"`
	MarketDescription string            `json:"market_description"`
	PricePerUnit      decimal.Decimal   `json:"price_per_unit"`
	Prices            *[]priceSampleDTO `json:"prices,omitempty"`
}

type updateStatusRequest struct {
	Status            string `json:"status"`
	RejectionReason   string `json:"rejection_reason,omitempty"`
	RejectionFeedback string `json:"rejection_feedback,omitempty"`
}

type replacePricesRequest struct {
	Prices []priceSampleDTO `json:"prices"`
}

type createPaymentIntentRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type settleOrderRequest struct {
	SettlementID  uuid.UUID `json:"settlement_id"`
	TransactionID string    `json:"transaction_id"`
}

type addToWatchlistRequest struct {
	ProductID int64 `json:"product_id"`
}

type registerUserRequest struct {
	Name string `json:"name"`
}

type updateNameRequest struct {
	Name string `json:"name"`
}

type addReviewRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type updateReviewRequest struct {
	Comment string `json:"comment"`
}

// RESPONSES

type productResponse struct {
	ID                int64            `json:"id"`
	ItemName          string           `json:"item_name"`
	MarketName        string           `json:"market_name"`
	MarketDescription string           `json:"market_description"`
	PricePerUnit      decimal.Decimal  `json:"price_per_unit"`
	VendorEmail       string           `json:"vendor_email"`
	VendorName        string           `json:"vendor_name"`
	Status            string           `json:"status"`
	RejectionReason   string           `json:"rejection_reason,omitempty"`
	RejectionFeedback string           `json:"rejection_feedback,omitempty"`
	CreatedOn         string           `json:"created_on"`
	Prices            []priceSampleDTO `json:"prices,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         *time.Time       `json:"updated_at,omitempty"`
}

type catalogResponse struct {
	Products    []productResponse `json:"products"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
	TotalItems  int               `json:"total_items"`
}

type priceSeriesResponse struct {
	ProductID int64            `json:"product_id"`
	Prices    []priceSampleDTO `json:"prices"`
}

type comparisonResponse struct {
	ReferenceDate string           `json:"reference_date"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	LatestPrice   decimal.Decimal  `json:"latest_price"`
	LatestDate    string           `json:"latest_date"`
	Delta         decimal.Decimal  `json:"delta"`
	Direction     string           `json:"direction"`
	Summary       string           `json:"summary"`
	Series        []priceSampleDTO `json:"series"`
}

type paymentIntentResponse struct {
	SettlementID uuid.UUID       `json:"settlement_id"`
	IntentID     string          `json:"intent_id"`
	ClientSecret string          `json:"client_secret"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	AmountMinor  int64           `json:"amount_minor"`
	Currency     string          `json:"currency"`
}

type orderResponse struct {
	ID            int64           `json:"id"`
	SettlementID  uuid.UUID       `json:"settlement_id"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	MarketName    string          `json:"market_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	TransactionID string          `json:"transaction_id"`
	BuyerEmail    string          `json:"buyer_email"`
	BuyerName     string          `json:"buyer_name"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type settlementResponse struct {
	ID                  uuid.UUID       `json:"id"`
	ProductID           int64           `json:"product_id"`
	BuyerEmail          string          `json:"buyer_email"`
	Quantity            int             `json:"quantity"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Currency            string          `json:"currency"`
	IntentID            string          `json:"intent_id"`
	State               string          `json:"state"`
	NeedsReconciliation bool            `json:"needs_reconciliation"`
	FailureReason       string          `json:"failure_reason,omitempty"`
	Attempts            int             `json:"attempts"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type watchlistEntryResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	MarketName  string    `json:"market_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type roleResponse struct {
	Role string `json:"role"`
}

type reviewResponse struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"product_id"`
	UserEmail string     `json:"user_email"`
	UserName  string     `json:"user_name"`
	Comment   string     `json:"comment"`
	Rating    int        `json:"rating"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MAPPERS

func toSampleInputs(in []priceSampleDTO) []usecase.PriceSampleInput {
	return lo.Map(in, func(s priceSampleDTO, _ int) usecase.PriceSampleInput {
		return usecase.NewPriceSampleInput(s.Date, s.Price)
	})
}

func toSampleDTOs(series domain.PriceSeries) []priceSampleDTO {
	return lo.Map(series, func(s domain.PriceSample, _ int) priceSampleDTO {
		return priceSampleDTO{Date: s.DateString(), Price: s.Price}
	})
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:                p.ID,
		ItemName:          p.ItemName,
		MarketName:        p.MarketName,
		MarketDescription: p.MarketDescription,
		PricePerUnit:      p.PricePerUnit,
		VendorEmail:       p.VendorEmail,
		VendorName:        p.VendorName,
		Status:            string(p.Status),
		RejectionReason:   p.RejectionReason,
		RejectionFeedback: p.RejectionFeedback,
		CreatedOn:         domain.FormatDate(p.CreatedOn),
		Prices:            toSampleDTOs(p.Prices),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	return lo.Map(products, func(p domain.Product, _ int) productResponse {
		return toProductResponse(&p)
	})
}

func toCatalogResponse(page *domain.CatalogPage) catalogResponse {
	return catalogResponse{
		Products:    toProductResponses(page.Products),
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
	}
}

func toComparisonResponse(c *domain.PriceComparison) comparisonResponse {
	return comparisonResponse{
		ReferenceDate: domain.FormatDate(c.ReferenceDate),
		BasePrice:     c.Base.Price,
		LatestPrice:   c.Latest.Price,
		LatestDate:    c.Latest.DateString(),
		Delta:         c.Delta,
		Direction:     string(c.Direction),
		Summary:       c.Summary(),
		Series:        toSampleDTOs(c.Series),
	}
}

func toPaymentIntentResponse(res *usecase.CreatePaymentIntentRes) paymentIntentResponse {
	return paymentIntentResponse{
		SettlementID: res.SettlementID,
		IntentID:     res.IntentID,
		ClientSecret: res.ClientSecret,
		TotalAmount:  res.TotalAmount,
		AmountMinor:  res.AmountMinor,
		Currency:     res.Currency,
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		SettlementID:  o.SettlementID,
		ProductID:     o.ProductID,
		ProductName:   o.ProductName,
		MarketName:    o.MarketName,
		UnitPrice:     o.UnitPrice,
		Quantity:      o.Quantity,
		TotalAmount:   o.TotalAmount,
		Currency:      o.Currency,
		TransactionID: o.TransactionID,
		BuyerEmail:    o.BuyerEmail,
		BuyerName:     o.BuyerName,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	return lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return toOrderResponse(&o)
	})
}

func toSettlementResponses(settlements []domain.Settlement) []settlementResponse {
	return lo.Map(settlements, func(s domain.Settlement, _ int) settlementResponse {
		return settlementResponse{
			ID:                  s.ID,
			ProductID:           s.ProductID,
			BuyerEmail:          s.BuyerEmail,
			Quantity:            s.Quantity,
			TotalAmount:         s.TotalAmount,
			Currency:            s.Currency,
			IntentID:            s.IntentID,
			State:               string(s.State),
			NeedsReconciliation: s.NeedsReconciliation,
			FailureReason:       s.FailureReason,
			Attempts:            s.Attempts,
			UpdatedAt:           s.UpdatedAt,
		}
	})
}

func toWatchlistResponse(w *domain.WatchlistEntry) watchlistEntryResponse {
	return watchlistEntryResponse{
		ID:          w.ID,
		ProductID:   w.ProductID,
		ProductName: w.ProductName,
		MarketName:  w.MarketName,
		CreatedAt:   w.CreatedAt,
	}
}

func toWatchlistResponses(entries []domain.WatchlistEntry) []watchlistEntryResponse {
	return lo.Map(entries, func(w domain.WatchlistEntry, _ int) watchlistEntryResponse {
		return toWatchlistResponse(&w)
	})
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{Email: u.Email, Name: u.Name, Role: string(u.Role)}
}

func toUserResponses(users []domain.User) []userResponse {
	return lo.Map(users, func(u domain.User, _ int) userResponse {
		return toUserResponse(&u)
	})
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserEmail: r.UserEmail,
		UserName:  r.UserName,
		Comment:   r.Comment,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	return lo.Map(reviews, func(r domain.Review, _ int) reviewResponse {
		return toReviewResponse(&r)
	})
}
