package usecase

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// OutboxStatus: статус события в таблице outbox_events.
type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
	// Failed: брокер отверг событие без шанса на успех повтора. ReclaimStale его не возвращает.
	Failed OutboxStatus = "failed"
)

// OutboxEventType: тип доменного события.
type OutboxEventType string

const (
	EventPriceAppended                  OutboxEventType = "price.appended"
	EventPriceReplaced                  OutboxEventType = "price.replaced"
	EventOrderPaid                      OutboxEventType = "order.paid"
	EventSettlementReconciliationNeeded OutboxEventType = "settlement.reconciliation_required"
)

// OutboxEvent: событие, записанное в одной транзакции с изменением и отправляемое в Kafka воркером.
type OutboxEvent struct {
	ID          int64
	EventID     uuid.UUID
	EventType   OutboxEventType
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

func NewOutboxEvent(eventType OutboxEventType, aggregateID string, payload any) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:     uuid.New(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     data,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

type priceSamplePayload struct {
	Date  string `json:"date"`
	Price string `json:"price"`
}

type priceEventPayload struct {
	ProductID int64                `json:"product_id"`
	Samples   []priceSamplePayload `json:"samples"`
}

type orderPaidPayload struct {
	OrderID       int64  `json:"order_id"`
	SettlementID  string `json:"settlement_id"`
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	TotalAmount   string `json:"total_amount"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transaction_id"`
	BuyerEmail    string `json:"buyer_email"`
}

type reconciliationPayload struct {
	SettlementID  string `json:"settlement_id"`
	TransactionID string `json:"transaction_id"`
	State         string `json:"state"`
	Reason        string `json:"reason"`
	Attempts      int    `json:"attempts"`
}

func newPriceEvent(eventType OutboxEventType, productID int64, series domain.PriceSeries) (*OutboxEvent, error) {
	payload := priceEventPayload{
		ProductID: productID,
		Samples: lo.Map(series, func(s domain.PriceSample, _ int) priceSamplePayload {
			return priceSamplePayload{Date: s.DateString(), Price: s.Price.StringFixed(2)}
		}),
	}
	return NewOutboxEvent(eventType, strconv.FormatInt(productID, 10), payload)
}

func newOrderPaidEvent(order *domain.Order) (*OutboxEvent, error) {
	return NewOutboxEvent(EventOrderPaid, order.SettlementID.String(), orderPaidPayload{
		OrderID:       order.ID,
		SettlementID:  order.SettlementID.String(),
		ProductID:     order.ProductID,
		Quantity:      order.Quantity,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Currency:      order.Currency,
		TransactionID: order.TransactionID,
		BuyerEmail:    order.BuyerEmail,
	})
}

func newReconciliationEvent(s *domain.Settlement) (*OutboxEvent, error) {
	return NewOutboxEvent(EventSettlementReconciliationNeeded, s.ID.String(), reconciliationPayload{
		SettlementID:  s.ID.String(),
		TransactionID: s.IntentID,
		State:         string(s.State),
		Reason:        s.FailureReason,
		Attempts:      s.Attempts,
	})
}
