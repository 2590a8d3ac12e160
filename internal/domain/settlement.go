package domain

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// SettlementState: состояние попытки покупки.
type SettlementState string

const (
	SettlementInit           SettlementState = "INIT"
	SettlementIntentCreated  SettlementState = "INTENT_CREATED"
	SettlementAuthorized     SettlementState = "AUTHORIZED"
	SettlementOrderPersisted SettlementState = "ORDER_PERSISTED"
	SettlementFailed         SettlementState = "FAILED"
)

var settlementTransitions = map[SettlementState][]SettlementState{
	SettlementInit:          {SettlementIntentCreated, SettlementFailed},
	SettlementIntentCreated: {SettlementAuthorized, SettlementFailed},
	SettlementAuthorized:    {SettlementOrderPersisted, SettlementFailed},
}

// Terminal сообщает, является ли состояние конечным.
func (s SettlementState) Terminal() bool {
	return s == SettlementOrderPersisted || s == SettlementFailed
}

func (s SettlementState) CanTransitionTo(to SettlementState) bool {
	for _, next := range settlementTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Settlement: устойчивая запись о покупке между созданием intent и записью заказа.
// NeedsReconciliation выставляется, когда оплата подтверждена, а заказ записать не удалось.
type Settlement struct {
	ID                  uuid.UUID
	ProductID           int64
	ProductName         string
	MarketName          string
	BuyerEmail          string
	BuyerName           string
	Quantity            int
	UnitPrice           decimal.Decimal
	TotalAmount         decimal.Decimal
	AmountMinor         int64
	Currency            string
	IntentID            string
	State               SettlementState
	NeedsReconciliation bool
	FailureReason       string
	Attempts            int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewSettlement считает итог покупки и создаёт расчёт в состоянии INIT.
func NewSettlement(product *Product, quantity int, buyer Identity, cur currency.Unit) (*Settlement, error) {
	total, err := ComputeTotal(product.PricePerUnit, quantity)
	if err != nil {
		return nil, err
	}

	money := Money{Amount: total, Currency: cur}
	minor, err := money.MinorUnits()
	if err != nil {
		return nil, err
	}

	return &Settlement{
		ID:          uuid.New(),
		ProductID:   product.ID,
		ProductName: product.ItemName,
		MarketName:  product.MarketName,
		BuyerEmail:  buyer.Email,
		BuyerName:   buyer.Name,
		Quantity:    quantity,
		UnitPrice:   product.PricePerUnit,
		TotalAmount: total,
		AmountMinor: minor,
		Currency:    money.ProcessorCode(),
		State:       SettlementInit,
	}, nil
}

// Transition переводит расчёт в новое состояние, если переход допустим.
func (s *Settlement) Transition(to SettlementState) error {
	if !s.State.CanTransitionTo(to) {
		return e.Wrap(fmt.Sprintf("%s -> %s", s.State, to), e.ErrInvalidTransition)
	}
	s.State = to
	return nil
}

// Fail переводит расчёт в FAILED с указанием причины.
func (s *Settlement) Fail(reason string) error {
	if err := s.Transition(SettlementFailed); err != nil {
		return err
	}
	s.FailureReason = reason
	return nil
}

// StateConflict возвращает ошибку для записи, отклонённой потому, что расчёт уже перешёл в current.
func StateConflict(current SettlementState) error {
	switch current {
	case SettlementOrderPersisted:
		return e.ErrSettlementCompleted
	case SettlementFailed:
		return e.ErrSettlementFailed
	default:
		return e.Wrap(string(current), e.ErrInvalidTransition)
	}
}
