package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest      = fmt.Errorf("bad request")
	ErrMissingFields         = fmt.Errorf("required fields are missing")
	ErrInvalidPrice          = fmt.Errorf("price must be a non-negative number")
	ErrPricePrecision        = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidDate           = fmt.Errorf("date must be a calendar date in YYYY-MM-DD format")
	ErrInvalidDateRange      = fmt.Errorf("start date must not be after end date")
	ErrInvalidLimit          = fmt.Errorf("limit must be a positive integer")
	ErrInvalidPage           = fmt.Errorf("page must be a positive integer")
	ErrInvalidSort           = fmt.Errorf("sort must be one of: asc, desc")
	ErrInvalidQuantity       = fmt.Errorf("quantity must be a positive integer")
	ErrInvalidStatus         = fmt.Errorf("status must be one of: pending, approved, rejected")
	ErrInvalidRole           = fmt.Errorf("role must be one of: user, vendor, admin")
	ErrInvalidCurrency       = fmt.Errorf("currency must be an ISO 4217 code")
	ErrProductNameRequired   = fmt.Errorf("item name is required")
	ErrMarketNameRequired    = fmt.Errorf("market name is required")
	ErrTransactionIDRequired = fmt.Errorf("transaction id is required")
	ErrTransactionMismatch   = fmt.Errorf("transaction id does not match the payment intent")
	ErrAmountTooLarge        = fmt.Errorf("order amount exceeds the allowed maximum")
	ErrInvalidTransition     = fmt.Errorf("invalid settlement state transition")
	ErrCommentRequired       = fmt.Errorf("review comment is required")
	ErrInvalidRating         = fmt.Errorf("rating must be an integer from 1 to 5")
	ErrNameRequired          = fmt.Errorf("name is required")

	// 401 / 403
	ErrUnauthenticated = fmt.Errorf("authentication required")
	ErrForbidden       = fmt.Errorf("access denied")

	// 402
	ErrPaymentNotConfirmed = fmt.Errorf("payment was not confirmed by the processor")

	// 404 Not Found
	ErrProductNotFound    = fmt.Errorf("product not found")
	ErrNoDataForDate      = fmt.Errorf("no data for that date")
	ErrSettlementNotFound = fmt.Errorf("settlement not found")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrWatchlistNotFound  = fmt.Errorf("watchlist entry not found")
	ErrReviewNotFound     = fmt.Errorf("review not found")

	// 409 Conflict
	ErrAlreadyInWatchlist  = fmt.Errorf("already in watchlist")
	ErrSettlementCompleted = fmt.Errorf("order for this payment has already been recorded")
	ErrSettlementFailed    = fmt.Errorf("payment attempt has failed, start a new one")

	// 5xx
	ErrInternalServerError    = fmt.Errorf("internal server error")
	ErrAuthorizationSetup     = fmt.Errorf("authorization setup failed")
	ErrPaymentProvider        = fmt.Errorf("payment provider unavailable, try again later")
	ErrSettlementInconsistent = fmt.Errorf("payment received but order was not recorded, contact support")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
