package converter

import "github.com/shopspring/decimal"

// ProductRedisModel: карточка продукта без истории цен.
type ProductRedisModel struct {
	ID                int64           `json:"id"`
	ItemName          string          `json:"item_name"`
	MarketName        string          `json:"market_name"`
	MarketDescription string          `json:"market_description"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	VendorEmail       string          `json:"vendor_email"`
	VendorName        string          `json:"vendor_name"`
	Status            string          `json:"status"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
	RejectionFeedback string          `json:"rejection_feedback,omitempty"`
	CreatedOn         string          `json:"created_on"`
}
