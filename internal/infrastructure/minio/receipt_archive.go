package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/jitter"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

const (
	defaultUploadAttempts = 3
	defaultUploadTimeout  = 30 * time.Second
)

// ReceiptArchive выгружает чеки оплаченных заказов в MinIO в фоне.
// Запрос покупателя не ждёт выгрузки; ошибки только логируются.
type ReceiptArchive struct {
	repo        usecase.ReceiptRepository
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	attempts    int
	baseBackoff time.Duration
}

func NewReceiptArchive(repo usecase.ReceiptRepository, logger logger.Logger, shutdownCtx context.Context) *ReceiptArchive {
	return &ReceiptArchive{
		repo:        repo,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		attempts:    defaultUploadAttempts,
		baseBackoff: time.Second,
	}
}

// PutReceipt формирует чек и ставит его на выгрузку. Возвращает ключ объекта.
func (r *ReceiptArchive) PutReceipt(_ context.Context, order *domain.Order) (string, error) {
	const op = "ReceiptArchive.PutReceipt"

	receipt, err := domain.NewReceipt(order)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	r.wg.Add(1)
	go r.upload(receipt)

	return receipt.ObjectKey, nil
}

// upload повторяет выгрузку с экспоненциальной задержкой и jitter, пока не кончатся попытки или не начнётся остановка.
func (r *ReceiptArchive) upload(receipt *domain.Receipt) {
	defer r.wg.Done()
	const op = "ReceiptArchive.upload"

	ctx, cancel := context.WithTimeout(r.shutdownCtx, defaultUploadTimeout)
	defer cancel()

	backoff := jitter.NewBackoff(r.baseBackoff, 8*r.baseBackoff)
	for attempt := 1; ; attempt++ {
		_, err := r.repo.Upload(ctx, receipt)
		if err == nil {
			r.logger.Debugf("%s: receipt uploaded, key=%s", op, receipt.ObjectKey)
			return
		}

		if attempt >= r.attempts {
			r.logger.Errorf(err, "%s: giving up on receipt, key=%s attempts=%d", op, receipt.ObjectKey, attempt)
			return
		}

		r.logger.Warnf("%s: upload failed, key=%s attempt=%d: %v", op, receipt.ObjectKey, attempt, err)
		if !backoff.Sleep(ctx) {
			r.logger.Warnf("%s: upload interrupted by shutdown, key=%s", op, receipt.ObjectKey)
			return
		}
	}
}

// WaitForUploads ожидает завершения фоновых выгрузок с учётом таймаута остановки приложения.
func (r *ReceiptArchive) WaitForUploads(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("receipt upload timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
