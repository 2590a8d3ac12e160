package domain

import (
	"time"

	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// DateLayout: формат календарной даты ISO-8601.
const DateLayout = "2006-01-02"

// maxPrice ограничен точностью колонки NUMERIC(14, 2).
var maxPrice = decimal.New(1, 12)

// PriceSample: одно наблюдение цены на дату.
type PriceSample struct {
	Date  time.Time
	Price decimal.Decimal
}

// PriceSeries: история цен продукта в порядке вставки.
// Дубликаты дат допустимы, сортировка по дате не гарантируется.
type PriceSeries []PriceSample

func NewPriceSample(date time.Time, price decimal.Decimal) PriceSample {
	return PriceSample{Date: TruncateDate(date), Price: price}
}

// ParsePriceSample разбирает дату в формате YYYY-MM-DD и проверяет цену.
func ParsePriceSample(date string, price decimal.Decimal) (PriceSample, error) {
	d, err := ParseDate(date)
	if err != nil {
		return PriceSample{}, err
	}

	if err := ValidatePrice(price); err != nil {
		return PriceSample{}, err
	}

	return NewPriceSample(d, price), nil
}

// Validate проверяет, что цена неотрицательна и имеет не более двух знаков после запятой.
func (s PriceSample) Validate() error {
	if s.Date.IsZero() {
		return e.ErrInvalidDate
	}
	return ValidatePrice(s.Price)
}

// DateString возвращает дату наблюдения в формате YYYY-MM-DD.
func (s PriceSample) DateString() string {
	return FormatDate(s.Date)
}

// Validate проверяет каждое наблюдение серии.
func (s PriceSeries) Validate() error {
	for _, sample := range s {
		if err := sample.Validate(); err != nil {
			return e.Wrap(sample.DateString(), err)
		}
	}
	return nil
}

// Latest возвращает последнее по порядку вставки наблюдение.
// Это не обязательно наблюдение с максимальной датой.
func (s PriceSeries) Latest() (PriceSample, bool) {
	if len(s) == 0 {
		return PriceSample{}, false
	}
	return s[len(s)-1], true
}

// FindByDate возвращает первое наблюдение с точно совпадающей датой.
func (s PriceSeries) FindByDate(date time.Time) (PriceSample, bool) {
	date = TruncateDate(date)
	for _, sample := range s {
		if sample.Date.Equal(date) {
			return sample, true
		}
	}
	return PriceSample{}, false
}

// ValidatePrice проверяет цену: не меньше нуля, не больше допустимого максимума, не более 2 знаков после запятой.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() || price.GreaterThanOrEqual(maxPrice) {
		return e.ErrInvalidPrice
	}

	if !price.Equal(price.Truncate(2)) {
		return e.ErrPricePrecision
	}

	return nil
}

// ParseDate разбирает календарную дату YYYY-MM-DD в полночь UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, e.Wrap(s, e.ErrInvalidDate)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate отбрасывает время суток, оставляя календарную дату в UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
