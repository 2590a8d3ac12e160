package domain

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// PriceDirection: направление изменения цены.
type PriceDirection string

const (
	PriceIncreased PriceDirection = "increased"
	PriceDecreased PriceDirection = "decreased"
	PriceUnchanged PriceDirection = "unchanged"
)

// PriceComparison: результат сравнения последней цены с ценой на опорную дату.
type PriceComparison struct {
	ReferenceDate time.Time
	Base          PriceSample
	Latest        PriceSample
	Delta         decimal.Decimal
	Direction     PriceDirection
	Series        PriceSeries
}

// ComparePrices сравнивает последнее по порядку вставки наблюдение с наблюдением на опорную дату.
// Ищется только точное совпадение даты; ближайшие даты не подставляются.
// Функция чистая, результат не кэшируется.
func ComparePrices(series PriceSeries, referenceDate time.Time) (*PriceComparison, error) {
	latest, ok := series.Latest()
	if !ok {
		return nil, e.Wrap(FormatDate(referenceDate), e.ErrNoDataForDate)
	}

	base, ok := series.FindByDate(referenceDate)
	if !ok {
		return nil, e.Wrap(FormatDate(referenceDate), e.ErrNoDataForDate)
	}

	delta := latest.Price.Sub(base.Price)

	return &PriceComparison{
		ReferenceDate: TruncateDate(referenceDate),
		Base:          base,
		Latest:        latest,
		Delta:         delta,
		Direction:     directionOf(delta),
		Series:        series,
	}, nil
}

// Summary возвращает человекочитаемое описание изменения.
func (c *PriceComparison) Summary() string {
	date := FormatDate(c.ReferenceDate)

	switch c.Direction {
	case PriceIncreased:
		return fmt.Sprintf("Price increased by %s since %s", c.Delta.String(), date)
	case PriceDecreased:
		return fmt.Sprintf("Price decreased by %s since %s", c.Delta.Abs().String(), date)
	default:
		return fmt.Sprintf("Price remained the same since %s", date)
	}
}

func directionOf(delta decimal.Decimal) PriceDirection {
	switch delta.Sign() {
	case 1:
		return PriceIncreased
	case -1:
		return PriceDecreased
	default:
		return PriceUnchanged
	}
}
