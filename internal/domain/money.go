package domain

import (
	"strings"

	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// maxOrderQuantity ограничивает количество единиц в одной покупке.
const maxOrderQuantity = 100_000

// Money: сумма в валюте.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// ParseCurrency разбирает код ISO 4217 в любом регистре.
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return currency.Unit{}, e.Wrap(code, e.ErrInvalidCurrency)
	}
	return unit, nil
}

// ComputeTotal считает итог покупки: цена за единицу × количество.
func ComputeTotal(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 || quantity > maxOrderQuantity {
		return decimal.Zero, e.ErrInvalidQuantity
	}

	if err := ValidatePrice(unitPrice); err != nil {
		return decimal.Zero, err
	}

	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// MinorUnits переводит сумму в минимальные единицы валюты (центы для USD).
func (m Money) MinorUnits() (int64, error) {
	scale, _ := currency.Standard.Rounding(m.Currency)

	minor := m.Amount.Shift(int32(scale))
	if !minor.IsInteger() {
		return 0, e.ErrPricePrecision
	}

	if !minor.BigInt().IsInt64() {
		return 0, e.ErrAmountTooLarge
	}

	return minor.IntPart(), nil
}

// ProcessorCode: код валюты в нижнем регистре, как его ожидает платёжный процессор.
func (m Money) ProcessorCode() string {
	return strings.ToLower(m.Currency.String())
}
