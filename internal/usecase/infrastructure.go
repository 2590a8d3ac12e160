package usecase

import (
	"context"

	"github.com/DRSN-tech/market-backend/internal/domain"
)

// TxRunner выполняет fn в одной транзакции БД. Вложенные вызовы переиспользуют внешнюю транзакцию.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentProcessor: адаптер платёжного процессора. Поддерживаются только карты.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, req *CreateIntentReq) (*CreateIntentRes, error)
	RetrieveIntent(ctx context.Context, intentID string) (*RetrieveIntentRes, error)
}

type IdentityVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
}

type ReceiptArchive interface {
	PutReceipt(ctx context.Context, order *domain.Order) (string, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
