package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const OrderStatusPaid = "paid"

// Order: завершённая покупка. После создания не изменяется.
type Order struct {
	ID            int64
	SettlementID  uuid.UUID
	ProductID     int64
	ProductName   string
	MarketName    string
	UnitPrice     decimal.Decimal
	Quantity      int
	TotalAmount   decimal.Decimal
	Currency      string
	TransactionID string
	BuyerEmail    string
	BuyerName     string
	Status        string
	CreatedAt     time.Time
}

// OrderFromSettlement строит заказ из авторизованного расчёта.
func OrderFromSettlement(s *Settlement) *Order {
	return &Order{
		SettlementID:  s.ID,
		ProductID:     s.ProductID,
		ProductName:   s.ProductName,
		MarketName:    s.MarketName,
		UnitPrice:     s.UnitPrice,
		Quantity:      s.Quantity,
		TotalAmount:   s.TotalAmount,
		Currency:      s.Currency,
		TransactionID: s.IntentID,
		BuyerEmail:    s.BuyerEmail,
		BuyerName:     s.BuyerName,
		Status:        OrderStatusPaid,
	}
}
