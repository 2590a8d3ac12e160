package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID                int64           `db:"id"`
	ItemName          string          `db:"item_name"`
	MarketName        string          `db:"market_name"`
	MarketDescription string          `db:"market_description"`
	PricePerUnit      decimal.Decimal `db:"price_per_unit"`
	VendorEmail       string          `db:"vendor_email"`
	VendorName        string          `db:"vendor_name"`
	Status            string          `db:"status"`
	RejectionReason   string          `db:"rejection_reason"`
	RejectionFeedback string          `db:"rejection_feedback"`
	CreatedOn         time.Time       `db:"created_on"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         *time.Time      `db:"updated_at"`
}

// PriceSampleModel представляет запись таблицы price_samples.
type PriceSampleModel struct {
	ID         int64           `db:"id"`
	ProductID  int64           `db:"product_id"`
	SampleDate time.Time       `db:"sample_date"`
	Price      decimal.Decimal `db:"price"`
}

// SettlementModel представляет запись таблицы settlements.
type SettlementModel struct {
	ID                  uuid.UUID       `db:"id"`
	ProductID           int64           `db:"product_id"`
	ProductName         string          `db:"product_name"`
	MarketName          string          `db:"market_name"`
	BuyerEmail          string          `db:"buyer_email"`
	BuyerName           string          `db:"buyer_name"`
	Quantity            int             `db:"quantity"`
	UnitPrice           decimal.Decimal `db:"unit_price"`
	TotalAmount         decimal.Decimal `db:"total_amount"`
	AmountMinor         int64           `db:"amount_minor"`
	Currency            string          `db:"currency"`
	IntentID            *string         `db:"intent_id"`
	State               string          `db:"state"`
	NeedsReconciliation bool            `db:"needs_reconciliation"`
	FailureReason       string          `db:"failure_reason"`
	Attempts            int             `db:"attempts"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

// OrderModel представляет запись таблицы orders.
type OrderModel struct {
	ID            int64           `db:"id"`
	SettlementID  uuid.UUID       `db:"settlement_id"`
	ProductID     int64           `db:"product_id"`
	ProductName   string          `db:"product_name"`
	MarketName    string          `db:"market_name"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Quantity      int             `db:"quantity"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Currency      string          `db:"currency"`
	TransactionID string          `db:"transaction_id"`
	BuyerEmail    string          `db:"buyer_email"`
	BuyerName     string          `db:"buyer_name"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}

// WatchlistModel представляет запись таблицы watchlist.
type WatchlistModel struct {
	ID          int64     `db:"id"`
	UserEmail   string    `db:"user_email"`
	ProductID   int64     `db:"product_id"`
	ProductName string    `db:"product_name"`
	MarketName  string    `db:"market_name"`
	CreatedAt   time.Time `db:"created_at"`
}

// UserModel представляет запись таблицы users.
type UserModel struct {
	Email     string     `db:"email"`
	Name      string     `db:"name"`
	Role      string     `db:"role"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     uuid.UUID  `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

// ReviewModel представляет запись таблицы reviews.
type ReviewModel struct {
	ID        int64      `db:"id"`
	ProductID int64      `db:"product_id"`
	UserEmail string     `db:"user_email"`
	UserName  string     `db:"user_name"`
	Comment   string     `db:"comment"`
	Rating    int        `db:"rating"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}
