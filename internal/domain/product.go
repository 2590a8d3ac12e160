package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductStatus: статус модерации продукта.
type ProductStatus string

// remember to add new statuses to the validProductStatuses map
const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

var validProductStatuses = map[ProductStatus]struct{}{
	ProductStatusPending:  {},
	ProductStatusApproved: {},
	ProductStatusRejected: {},
}

func ToProductStatus(s string) (ProductStatus, error) {
	status := ProductStatus(s)
	if _, ok := validProductStatuses[status]; ok {
		return status, nil
	}

	return "", e.ErrInvalidStatus
}

// Product описывает товар вендора на рынке.
// PricePerUnit: рекламируемая цена; Prices: отдельный журнал наблюдений, они могут расходиться.
type Product struct {
	ID                int64
	ItemName          string
	MarketName        string
	MarketDescription string
	PricePerUnit      decimal.Decimal
	VendorEmail       string
	VendorName        string
	Status            ProductStatus
	RejectionReason   string
	RejectionFeedback string
	CreatedOn         time.Time
	Prices            PriceSeries
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func NewProduct(itemName, marketName, marketDescription string, pricePerUnit decimal.Decimal, createdOn time.Time, prices PriceSeries) *Product {
	return &Product{
		ItemName:          strings.TrimSpace(itemName),
		MarketName:        strings.TrimSpace(marketName),
		MarketDescription: marketDescription,
		PricePerUnit:      pricePerUnit,
		Status:            ProductStatusPending,
		CreatedOn:         TruncateDate(createdOn),
		Prices:            prices,
	}
}

// Validate проверяет атрибуты продукта и его историю цен.
func (p *Product) Validate() error {
	if p.ItemName == "" {
		return e.ErrProductNameRequired
	}

	if p.MarketName == "" {
		return e.ErrMarketNameRequired
	}

	if err := ValidatePrice(p.PricePerUnit); err != nil {
		return err
	}

	if p.CreatedOn.IsZero() {
		return e.ErrInvalidDate
	}

	return p.Prices.Validate()
}

// OwnedBy сообщает, принадлежит ли продукт вендору с указанным email.
func (p *Product) OwnedBy(email string) bool {
	return strings.EqualFold(p.VendorEmail, email)
}

// Moderate применяет решение модератора.
// При одобрении причины отклонения очищаются.
func (p *Product) Moderate(status ProductStatus, reason, feedback string) {
	p.Status = status
	if status == ProductStatusRejected {
		p.RejectionReason = reason
		p.RejectionFeedback = feedback
		return
	}
	p.RejectionReason = ""
	p.RejectionFeedback = ""
}
