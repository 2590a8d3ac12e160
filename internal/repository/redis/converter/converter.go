package converter

import (
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/samber/lo"
)

// ProductConverter преобразует domain.Product в модель кэша и обратно.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) (*ProductRedisModel, error)
	ToEntity(model *ProductRedisModel) (*domain.Product, error)
	ToArrRedisModel(entities []domain.Product) ([]ProductRedisModel, error)
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl { return &ProductConverterImpl{} }

func (ProductConverterImpl) ToRedisModel(entity *domain.Product) (*ProductRedisModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &ProductRedisModel{
		ID:                entity.ID,
		ItemName:          entity.ItemName,
		MarketName:        entity.MarketName,
		MarketDescription: entity.MarketDescription,
		PricePerUnit:      entity.PricePerUnit,
		VendorEmail:       entity.VendorEmail,
		VendorName:        entity.VendorName,
		Status:            string(entity.Status),
		RejectionReason:   entity.RejectionReason,
		RejectionFeedback: entity.RejectionFeedback,
		CreatedOn:         domain.FormatDate(entity.CreatedOn),
	}, nil
}

// ToEntity восстанавливает продукт. Испорченная дата в кэше считается ошибкой.
func (ProductConverterImpl) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	if model == nil {
		return nil, nil
	}

	createdOn, err := domain.ParseDate(model.CreatedOn)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:                model.ID,
		ItemName:          model.ItemName,
		MarketName:        model.MarketName,
		MarketDescription: model.MarketDescription,
		PricePerUnit:      model.PricePerUnit,
		VendorEmail:       model.VendorEmail,
		VendorName:        model.VendorName,
		Status:            domain.ProductStatus(model.Status),
		RejectionReason:   model.RejectionReason,
		RejectionFeedback: model.RejectionFeedback,
		CreatedOn:         createdOn,
	}, nil
}

func (c ProductConverterImpl) ToArrRedisModel(entities []domain.Product) ([]ProductRedisModel, error) {
	return lo.Map(entities, func(p domain.Product, _ int) ProductRedisModel {
		model, _ := c.ToRedisModel(&p)
		return *model
	}), nil
}
