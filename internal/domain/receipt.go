package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const ReceiptContentType = "application/json"

// Receipt: неизменяемая копия оплаченного заказа для архива.
type Receipt struct {
	ObjectKey   string
	Body        []byte
	ContentType string
}

type receiptBody struct {
	OrderID       int64     `json:"order_id"`
	SettlementID  string    `json:"settlement_id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     int64     `json:"product_id"`
	ProductName   string    `json:"product_name"`
	MarketName    string    `json:"market_name"`
	UnitPrice     string    `json:"unit_price"`
	Quantity      int       `json:"quantity"`
	TotalAmount   string    `json:"total_amount"`
	Currency      string    `json:"currency"`
	BuyerEmail    string    `json:"buyer_email"`
	BuyerName     string    `json:"buyer_name"`
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paid_at"`
}

// ReceiptKey: ключ объекта чека. Один чек на транзакцию, повторная запись перезаписывает его.
func ReceiptKey(transactionID string) string {
	return fmt.Sprintf("receipts/%s.json", transactionID)
}

func NewReceipt(order *Order) (*Receipt, error) {
	body, err := json.Marshal(receiptBody{
		OrderID:       order.ID,
		SettlementID:  order.SettlementID.String(),
		TransactionID: order.TransactionID,
		ProductID:     order.ProductID,
		ProductName:   order.ProductName,
		MarketName:    order.MarketName,
		UnitPrice:     order.UnitPrice.StringFixed(2),
		Quantity:      order.Quantity,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Currency:      order.Currency,
		BuyerEmail:    order.BuyerEmail,
		BuyerName:     order.BuyerName,
		Status:        order.Status,
		PaidAt:        order.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		ObjectKey:   ReceiptKey(order.TransactionID),
		Body:        body,
		ContentType: ReceiptContentType,
	}, nil
}
