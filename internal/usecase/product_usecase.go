package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

// ProductUseCase реализует реестр продуктов: публикацию, изменение, удаление и модерацию.
type ProductUseCase struct {
	productRepo ProductRepository
	priceRepo   PriceRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	txRunner    TxRunner
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	priceRepo PriceRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	txRunner TxRunner,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		priceRepo:   priceRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		txRunner:    txRunner,
		logger:      logger,
	}
}

// CreateProduct публикует продукт вендора. Статус всегда pending, независимо от запроса.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	createdOn := time.Now().UTC()
	if strings.TrimSpace(req.CreatedOn) != "" {
		d, err := domain.ParseDate(req.CreatedOn)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		createdOn = d
	}

	series, err := parseSamples(req.Prices)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.ItemName, req.MarketName, req.MarketDescription, req.PricePerUnit, createdOn, series)
	product.VendorEmail = domain.NormalizeEmail(req.Vendor.Email)
	product.VendorName = req.Vendor.Name
	if err := product.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Product
	err = p.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		if len(series) == 0 {
			return nil
		}

		if err := p.priceRepo.Replace(ctx, created.ID, series); err != nil {
			return err
		}

		return p.writePriceEvent(ctx, EventPriceReplaced, created.ID, series)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	created.Prices = series
	p.logger.Infof("Product created: id=%d vendor=%s", created.ID, created.VendorEmail)

	return created, nil
}

// GetProduct возвращает карточку продукта с историей цен.
// Кэшируется только карточка; серия всегда читается из хранилища цен.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.productCard(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product.Prices, err = p.priceRepo.Read(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// productCard читает атрибуты продукта из кэша, при промахе из БД с фоновым заполнением кэша.
func (p *ProductUseCase) productCard(ctx context.Context, id int64) (*domain.Product, error) {
	cached, err := p.cacheRepo.GetProducts(ctx, []int64{id})
	if err == nil {
		if product, ok := cached[id]; ok {
			return &product, nil
		}
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Фоновое добавление продукта в кэш
	toCache := *product
	toCache.Prices = nil
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProducts(bgCtx, []domain.Product{toCache}); err != nil {
			p.logger.Warnf("Failed to cache product %d in background: %v", toCache.ID, err)
		}
	}()

	return product, nil
}

// UpdateProduct заменяет атрибуты продукта вендора и, по запросу, его серию цен.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	var series domain.PriceSeries
	if req.ReplacePrices {
		var err error
		series, err = parseSamples(req.Prices)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	var product *domain.Product
	err := p.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		product, err = p.productRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if !product.OwnedBy(req.VendorEmail) {
			return e.ErrForbidden
		}

		product.ItemName = strings.TrimSpace(req.ItemName)
		product.MarketName = strings.TrimSpace(req.MarketName)
		product.MarketDescription = req.MarketDescription
		product.PricePerUnit = req.PricePerUnit
		if err := product.Validate(); err != nil {
			return err
		}

		if err := p.productRepo.Update(ctx, product); err != nil {
			return err
		}

		if !req.ReplacePrices {
			return nil
		}

		if err := p.priceRepo.Replace(ctx, product.ID, series); err != nil {
			return err
		}
		product.Prices = series

		return p.writePriceEvent(ctx, EventPriceReplaced, product.ID, series)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, req.ID)

	return product, nil
}

// DeleteProduct удаляет продукт вместе с серией и записями watchlist.
// Вендор может удалить только свой продукт, а администратор любой.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, req *DeleteProductReq) error {
	const op = "ProductUseCase.DeleteProduct"

	product, err := p.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if req.ActorRole != domain.RoleAdmin && !product.OwnedBy(req.ActorEmail) {
		return e.Wrap(op, e.ErrForbidden)
	}

	if err := p.productRepo.Delete(ctx, req.ID); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, req.ID)
	p.logger.Infof("Product deleted: id=%d by=%s", req.ID, req.ActorEmail)

	return nil
}

// ListVendorProducts возвращает продукты вендора в любом статусе.
func (p *ProductUseCase) ListVendorProducts(ctx context.Context, vendorEmail string) ([]domain.Product, error) {
	const op = "ProductUseCase.ListVendorProducts"

	products, err := p.productRepo.ListByVendor(ctx, domain.NormalizeEmail(vendorEmail))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// UpdateStatus применяет решение модератора.
func (p *ProductUseCase) UpdateStatus(ctx context.Context, req *UpdateStatusReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateStatus"

	status, err := domain.ToProductStatus(req.Status)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product.Moderate(status, req.RejectionReason, req.RejectionFeedback)
	if err := p.productRepo.UpdateStatus(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, req.ID)

	return product, nil
}

func (p *ProductUseCase) writePriceEvent(ctx context.Context, eventType OutboxEventType, productID int64, series domain.PriceSeries) error {
	event, err := newPriceEvent(eventType, productID, series)
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, event)
	return err
}

func (p *ProductUseCase) invalidate(ctx context.Context, productID int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{productID}); err != nil {
		p.logger.Warnf("Failed to delete product %d from cache: %v", productID, err)
	}
}
