package usecase

import (
	"strconv"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PRICE USECASE

// PriceSampleInput: наблюдение цены в том виде, в котором его прислал клиент.
type PriceSampleInput struct {
	Date  string
	Price decimal.Decimal
}

// AppendPriceReq: запрос на добавление наблюдения в конец серии.
type AppendPriceReq struct {
	ProductID   int64
	VendorEmail string
	Sample      PriceSampleInput
}

// ReplacePricesReq: запрос на полную замену серии.
type ReplacePricesReq struct {
	ProductID   int64
	VendorEmail string
	Samples     []PriceSampleInput
}

// ComparePricesReq: запрос сравнения последней цены с ценой на дату.
type ComparePricesReq struct {
	ProductID int64
	Date      string
}

// PRODUCT USECASE

// CreateProductReq: запрос вендора на публикацию продукта.
type CreateProductReq struct {
	ItemName          string
	MarketName        string
	MarketDescription string
	PricePerUnit      decimal.Decimal
	CreatedOn         string
	Prices            []PriceSampleInput
	Vendor            domain.Identity
}

// UpdateProductReq заменяет атрибуты продукта. Серия заменяется, только если ReplacePrices выставлен.
type UpdateProductReq struct {
	ID                int64
	ItemName          string
	MarketName        string
	MarketDescription string
	PricePerUnit      decimal.Decimal
	ReplacePrices     bool
	Prices            []PriceSampleInput
	VendorEmail       string
}

type DeleteProductReq struct {
	ID         int64
	ActorEmail string
	ActorRole  domain.Role
}

// UpdateStatusReq: решение модератора.
type UpdateStatusReq struct {
	ID                int64
	Status            string
	RejectionReason   string
	RejectionFeedback string
}

// SETTLEMENT USECASE

type CreatePaymentIntentReq struct {
	ProductID int64
	Quantity  int
	Buyer     domain.Identity
}

// CreatePaymentIntentRes возвращается клиенту для подтверждения оплаты картой.
type CreatePaymentIntentRes struct {
	SettlementID uuid.UUID
	IntentID     string
	ClientSecret string
	TotalAmount  decimal.Decimal
	AmountMinor  int64
	Currency     string
}

// SettleOrderReq: клиент сообщает, что процессор подтвердил оплату.
type SettleOrderReq struct {
	SettlementID  uuid.UUID
	TransactionID string
	Buyer         domain.Identity
}

// WATCHLIST USECASE

type AddToWatchlistReq struct {
	UserEmail string
	ProductID int64
}

type AddReviewReq struct {
	ProductID int64
	Author    domain.Identity
	Comment   string
	Rating    int
}

// UpdateReviewReq: автор меняет текст отзыва. Оценка не меняется.
type UpdateReviewReq struct {
	ID          int64
	AuthorEmail string
	Comment     string
}

type DeleteReviewReq struct {
	ID         int64
	ActorEmail string
	ActorRole  domain.Role
}

// INFRASTRUCTURE

// CreateIntentReq: запрос на создание платёжного намерения.
type CreateIntentReq struct {
	AmountMinor    int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

type CreateIntentRes struct {
	IntentID     string
	ClientSecret string
}

// IntentStatus: статус намерения в терминах процессора.
type IntentStatus string

const IntentSucceeded IntentStatus = "succeeded"

type RetrieveIntentRes struct {
	IntentID    string
	Status      IntentStatus
	AmountMinor int64
	Currency    string
}

// WriteRawMessageReq: сообщение для брокера с уже сериализованной нагрузкой.
type WriteRawMessageReq struct {
	Key       string
	EventID   string
	EventType OutboxEventType
	Payload   []byte
}

// MAPPERS

func NewPriceSampleInput(date string, price decimal.Decimal) PriceSampleInput {
	return PriceSampleInput{Date: date, Price: price}
}

func NewAppendPriceReq(productID int64, vendorEmail string, sample PriceSampleInput) *AppendPriceReq {
	return &AppendPriceReq{
		ProductID:   productID,
		VendorEmail: vendorEmail,
		Sample:      sample,
	}
}

func NewReplacePricesReq(productID int64, vendorEmail string, samples []PriceSampleInput) *ReplacePricesReq {
	return &ReplacePricesReq{
		ProductID:   productID,
		VendorEmail: vendorEmail,
		Samples:     samples,
	}
}

func NewComparePricesReq(productID int64, date string) *ComparePricesReq {
	return &ComparePricesReq{ProductID: productID, Date: date}
}

func NewDeleteProductReq(id int64, actorEmail string, actorRole domain.Role) *DeleteProductReq {
	return &DeleteProductReq{
		ID:         id,
		ActorEmail: actorEmail,
		ActorRole:  actorRole,
	}
}

func NewUpdateStatusReq(id int64, status, reason, feedback string) *UpdateStatusReq {
	return &UpdateStatusReq{
		ID:                id,
		Status:            status,
		RejectionReason:   reason,
		RejectionFeedback: feedback,
	}
}

func NewCreatePaymentIntentReq(productID int64, quantity int, buyer domain.Identity) *CreatePaymentIntentReq {
	return &CreatePaymentIntentReq{
		ProductID: productID,
		Quantity:  quantity,
		Buyer:     buyer,
	}
}

func NewCreatePaymentIntentRes(s *domain.Settlement, clientSecret string) *CreatePaymentIntentRes {
	return &CreatePaymentIntentRes{
		SettlementID: s.ID,
		IntentID:     s.IntentID,
		ClientSecret: clientSecret,
		TotalAmount:  s.TotalAmount,
		AmountMinor:  s.AmountMinor,
		Currency:     s.Currency,
	}
}

func NewSettleOrderReq(settlementID uuid.UUID, transactionID string, buyer domain.Identity) *SettleOrderReq {
	return &SettleOrderReq{
		SettlementID:  settlementID,
		TransactionID: transactionID,
		Buyer:         buyer,
	}
}

func NewAddToWatchlistReq(userEmail string, productID int64) *AddToWatchlistReq {
	return &AddToWatchlistReq{UserEmail: userEmail, ProductID: productID}
}

func NewAddReviewReq(productID int64, author domain.Identity, comment string, rating int) *AddReviewReq {
	return &AddReviewReq{ProductID: productID, Author: author, Comment: comment, Rating: rating}
}

func NewUpdateReviewReq(id int64, authorEmail, comment string) *UpdateReviewReq {
	return &UpdateReviewReq{ID: id, AuthorEmail: authorEmail, Comment: comment}
}

func NewDeleteReviewReq(id int64, actorEmail string, actorRole domain.Role) *DeleteReviewReq {
	return &DeleteReviewReq{ID: id, ActorEmail: actorEmail, ActorRole: actorRole}
}

func NewCreateIntentReq(s *domain.Settlement) *CreateIntentReq {
	return &CreateIntentReq{
		AmountMinor:    s.AmountMinor,
		Currency:       s.Currency,
		IdempotencyKey: s.ID.String(),
		Metadata: map[string]string{
			"settlement_id": s.ID.String(),
			"product_id":    strconv.FormatInt(s.ProductID, 10),
			"buyer_email":   s.BuyerEmail,
		},
	}
}

func NewCreateIntentRes(intentID, clientSecret string) *CreateIntentRes {
	return &CreateIntentRes{IntentID: intentID, ClientSecret: clientSecret}
}

func NewRetrieveIntentRes(intentID string, status IntentStatus, amountMinor int64, currency string) *RetrieveIntentRes {
	return &RetrieveIntentRes{
		IntentID:    intentID,
		Status:      status,
		AmountMinor: amountMinor,
		Currency:    currency,
	}
}

func NewWriteRawMessageReq(event *OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       event.AggregateID,
		EventID:   event.EventID.String(),
		EventType: event.EventType,
		Payload:   event.Payload,
	}
}

// parseSamples разбирает и проверяет наблюдения до обращения к хранилищу.
func parseSamples(in []PriceSampleInput) (domain.PriceSeries, error) {
	series := make(domain.PriceSeries, 0, len(in))
	for _, s := range in {
		sample, err := domain.ParsePriceSample(s.Date, s.Price)
		if err != nil {
			return nil, err
		}
		series = append(series, sample)
	}
	return series, nil
}
