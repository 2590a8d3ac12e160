package domain

import "time"

// WatchlistEntry связывает пользователя с отслеживаемым продуктом.
type WatchlistEntry struct {
	ID          int64
	UserEmail   string
	ProductID   int64
	ProductName string
	MarketName  string
	CreatedAt   time.Time
}

func NewWatchlistEntry(userEmail string, product *Product) *WatchlistEntry {
	return &WatchlistEntry{
		UserEmail:   userEmail,
		ProductID:   product.ID,
		ProductName: product.ItemName,
		MarketName:  product.MarketName,
	}
}
