package usecase

import (
	"context"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

// PriceUseCase ведёт историю цен продуктов и сравнивает цены.
type PriceUseCase struct {
	productRepo ProductRepository
	priceRepo   PriceRepository
	outboxRepo  OutboxRepository
	txRunner    TxRunner
	logger      logger.Logger
}

func NewPriceUC(
	productRepo ProductRepository,
	priceRepo PriceRepository,
	outboxRepo OutboxRepository,
	txRunner TxRunner,
	logger logger.Logger,
) *PriceUseCase {
	return &PriceUseCase{
		productRepo: productRepo,
		priceRepo:   priceRepo,
		outboxRepo:  outboxRepo,
		txRunner:    txRunner,
		logger:      logger,
	}
}

// AppendPrice добавляет наблюдение в конец серии без пересортировки.
// Некорректные данные отклоняются до обращения к хранилищу.
func (p *PriceUseCase) AppendPrice(ctx context.Context, req *AppendPriceReq) (*domain.PriceSample, error) {
	const op = "PriceUseCase.AppendPrice"

	sample, err := domain.ParsePriceSample(req.Sample.Date, req.Sample.Price)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = p.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := p.checkOwnership(ctx, req.ProductID, req.VendorEmail); err != nil {
			return err
		}

		if err := p.priceRepo.Append(ctx, req.ProductID, sample); err != nil {
			return err
		}

		return p.writeEvent(ctx, EventPriceAppended, req.ProductID, domain.PriceSeries{sample})
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &sample, nil
}

// ReplacePrices целиком перезаписывает серию. Слияния с прежними данными нет.
func (p *PriceUseCase) ReplacePrices(ctx context.Context, req *ReplacePricesReq) (domain.PriceSeries, error) {
	const op = "PriceUseCase.ReplacePrices"

	series, err := parseSamples(req.Samples)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = p.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := p.checkOwnership(ctx, req.ProductID, req.VendorEmail); err != nil {
			return err
		}

		if err := p.priceRepo.Replace(ctx, req.ProductID, series); err != nil {
			return err
		}

		return p.writeEvent(ctx, EventPriceReplaced, req.ProductID, series)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return series, nil
}

// GetPrices возвращает серию в порядке вставки.
func (p *PriceUseCase) GetPrices(ctx context.Context, productID int64) (domain.PriceSeries, error) {
	const op = "PriceUseCase.GetPrices"

	series, err := p.priceRepo.Read(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return series, nil
}

// ComparePrices сравнивает последнюю цену с ценой на точную дату.
func (p *PriceUseCase) ComparePrices(ctx context.Context, req *ComparePricesReq) (*domain.PriceComparison, error) {
	const op = "PriceUseCase.ComparePrices"

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	series, err := p.priceRepo.Read(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	cmp, err := domain.ComparePrices(series, date)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return cmp, nil
}

// checkOwnership проверяет, что продукт существует и принадлежит вендору.
func (p *PriceUseCase) checkOwnership(ctx context.Context, productID int64, vendorEmail string) error {
	product, err := p.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if !product.OwnedBy(vendorEmail) {
		return e.ErrForbidden
	}

	return nil
}

func (p *PriceUseCase) writeEvent(ctx context.Context, eventType OutboxEventType, productID int64, series domain.PriceSeries) error {
	event, err := newPriceEvent(eventType, productID, series)
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, event)
	return err
}
