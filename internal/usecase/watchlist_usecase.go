package usecase

import (
	"context"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
)

type WatchlistUseCase struct {
	productRepo   ProductRepository
	watchlistRepo WatchlistRepository
}

func NewWatchlistUC(productRepo ProductRepository, watchlistRepo WatchlistRepository) *WatchlistUseCase {
	return &WatchlistUseCase{
		productRepo:   productRepo,
		watchlistRepo: watchlistRepo,
	}
}

// AddToWatchlist добавляет продукт в список отслеживания. Повторное добавление: конфликт.
func (w *WatchlistUseCase) AddToWatchlist(ctx context.Context, req *AddToWatchlistReq) (*domain.WatchlistEntry, error) {
	const op = "WatchlistUseCase.AddToWatchlist"

	product, err := w.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entry, err := w.watchlistRepo.Create(ctx, domain.NewWatchlistEntry(domain.NormalizeEmail(req.UserEmail), product))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return entry, nil
}

func (w *WatchlistUseCase) ListWatchlist(ctx context.Context, userEmail string) ([]domain.WatchlistEntry, error) {
	const op = "WatchlistUseCase.ListWatchlist"

	entries, err := w.watchlistRepo.ListByUser(ctx, domain.NormalizeEmail(userEmail))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return entries, nil
}

// RemoveFromWatchlist удаляет запись только если она принадлежит пользователю.
func (w *WatchlistUseCase) RemoveFromWatchlist(ctx context.Context, id int64, userEmail string) error {
	const op = "WatchlistUseCase.RemoveFromWatchlist"

	if err := w.watchlistRepo.Delete(ctx, id, domain.NormalizeEmail(userEmail)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
