package minio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errUpload = errors.New("upload failed")

type fakeReceiptRepo struct {
	mu       sync.Mutex
	failures int
	calls    int
	uploaded map[string][]byte
}

func (f *fakeReceiptRepo) Upload(_ context.Context, receipt *domain.Receipt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.failures {
		return "", errUpload
	}
	if f.uploaded == nil {
		f.uploaded = make(map[string][]byte)
	}
	f.uploaded[receipt.ObjectKey] = receipt.Body
	return receipt.ObjectKey, nil
}

func (f *fakeReceiptRepo) snapshot() (int, map[string][]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.uploaded
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:            7,
		SettlementID:  uuid.New(),
		ProductID:     42,
		ProductName:   "Tomatoes",
		MarketName:    "Central",
		UnitPrice:     decimal.RequireFromString("20"),
		Quantity:      3,
		TotalAmount:   decimal.RequireFromString("60"),
		Currency:      "usd",
		TransactionID: "pi_abc",
		BuyerEmail:    "buyer@example.com",
		Status:        domain.OrderStatusPaid,
		CreatedAt:     time.Now(),
	}
}

func TestReceiptArchive_RetriesUntilUploaded(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &fakeReceiptRepo{failures: 2}
	archive := NewReceiptArchive(repo, logger.NewNopLogger(), context.Background())
	archive.baseBackoff = time.Millisecond

	key, err := archive.PutReceipt(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "receipts/pi_abc.json", key)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, archive.WaitForUploads(ctx))

	calls, uploaded := repo.snapshot()
	assert.Equal(t, 3, calls)
	assert.Contains(t, string(uploaded[key]), `"total_amount":"60.00"`)
}

func TestReceiptArchive_GivesUpAfterAttempts(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &fakeReceiptRepo{failures: 10}
	archive := NewReceiptArchive(repo, logger.NewNopLogger(), context.Background())
	archive.baseBackoff = time.Millisecond

	_, err := archive.PutReceipt(context.Background(), testOrder())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, archive.WaitForUploads(ctx))

	calls, uploaded := repo.snapshot()
	assert.Equal(t, defaultUploadAttempts, calls)
	assert.Empty(t, uploaded)
}

func TestReceiptArchive_StopsOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	shutdownCtx, shutdown := context.WithCancel(context.Background())
	repo := &fakeReceiptRepo{failures: 10}
	archive := NewReceiptArchive(repo, logger.NewNopLogger(), shutdownCtx)
	archive.baseBackoff = time.Hour

	_, err := archive.PutReceipt(context.Background(), testOrder())
	require.NoError(t, err)

	shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, archive.WaitForUploads(ctx))
}
