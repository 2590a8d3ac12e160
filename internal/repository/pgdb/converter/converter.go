package converter

import (
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/samber/lo"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

// PriceSampleConverter преобразует наблюдения цены.
type PriceSampleConverter interface {
	ToSeries(models []PriceSampleModel) domain.PriceSeries
}

type SettlementConverter interface {
	ToModel(entity *domain.Settlement) *SettlementModel
	ToEntity(model *SettlementModel) *domain.Settlement
	ToArrEntity(models []SettlementModel) []domain.Settlement
}

type OrderConverter interface {
	ToModel(entity *domain.Order) *OrderModel
	ToEntity(model *OrderModel) *domain.Order
	ToArrEntity(models []OrderModel) []domain.Order
}

type WatchlistConverter interface {
	ToEntity(model *WatchlistModel) *domain.WatchlistEntry
	ToArrEntity(models []WatchlistModel) []domain.WatchlistEntry
}

type UserConverter interface {
	ToEntity(model *UserModel) *domain.User
	ToArrEntity(models []UserModel) []domain.User
}

type ReviewConverter interface {
	ToEntity(model *ReviewModel) *domain.Review
	ToArrEntity(models []ReviewModel) []domain.Review
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl { return &ProductConverterImpl{} }

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}
	return &ProductModel{
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
		CreatedOn:         entity.CreatedOn,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
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
		CreatedOn:         domain.TruncateDate(model.CreatedOn),
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func (c ProductConverterImpl) ToArrEntity(models []ProductModel) []domain.Product {
	return lo.Map(models, func(m ProductModel, _ int) domain.Product { return *c.ToEntity(&m) })
}

type PriceSampleConverterImpl struct{}

func NewPriceSampleConverterImpl() *PriceSampleConverterImpl { return &PriceSampleConverterImpl{} }

func (PriceSampleConverterImpl) ToSeries(models []PriceSampleModel) domain.PriceSeries {
	series := make(domain.PriceSeries, 0, len(models))
	for _, m := range models {
		series = append(series, domain.NewPriceSample(m.SampleDate, m.Price))
	}
	return series
}

type SettlementConverterImpl struct{}

func NewSettlementConverterImpl() *SettlementConverterImpl { return &SettlementConverterImpl{} }

func (SettlementConverterImpl) ToModel(entity *domain.Settlement) *SettlementModel {
	if entity == nil {
		return nil
	}
	model := &SettlementModel{
		ID:                  entity.ID,
		ProductID:           entity.ProductID,
		ProductName:         entity.ProductName,
		MarketName:          entity.MarketName,
		BuyerEmail:          entity.BuyerEmail,
		BuyerName:           entity.BuyerName,
		Quantity:            entity.Quantity,
		UnitPrice:           entity.UnitPrice,
		TotalAmount:         entity.TotalAmount,
		AmountMinor:         entity.AmountMinor,
		Currency:            entity.Currency,
		State:               string(entity.State),
		NeedsReconciliation: entity.NeedsReconciliation,
		FailureReason:       entity.FailureReason,
		Attempts:            entity.Attempts,
		CreatedAt:           entity.CreatedAt,
		UpdatedAt:           entity.UpdatedAt,
	}
	if entity.IntentID != "" {
		model.IntentID = lo.ToPtr(entity.IntentID)
	}
	return model
}

func (SettlementConverterImpl) ToEntity(model *SettlementModel) *domain.Settlement {
	if model == nil {
		return nil
	}
	return &domain.Settlement{
		ID:                  model.ID,
		ProductID:           model.ProductID,
		ProductName:         model.ProductName,
		MarketName:          model.MarketName,
		BuyerEmail:          model.BuyerEmail,
		BuyerName:           model.BuyerName,
		Quantity:            model.Quantity,
		UnitPrice:           model.UnitPrice,
		TotalAmount:         model.TotalAmount,
		AmountMinor:         model.AmountMinor,
		Currency:            model.Currency,
		IntentID:            lo.FromPtr(model.IntentID),
		State:               domain.SettlementState(model.State),
		NeedsReconciliation: model.NeedsReconciliation,
		FailureReason:       model.FailureReason,
		Attempts:            model.Attempts,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

func (c SettlementConverterImpl) ToArrEntity(models []SettlementModel) []domain.Settlement {
	return lo.Map(models, func(m SettlementModel, _ int) domain.Settlement { return *c.ToEntity(&m) })
}

type OrderConverterImpl struct{}

func NewOrderConverterImpl() *OrderConverterImpl { return &OrderConverterImpl{} }

func (OrderConverterImpl) ToModel(entity *domain.Order) *OrderModel {
	if entity == nil {
		return nil
	}
	return &OrderModel{
		ID:            entity.ID,
		SettlementID:  entity.SettlementID,
		ProductID:     entity.ProductID,
		ProductName:   entity.ProductName,
		MarketName:    entity.MarketName,
		UnitPrice:     entity.UnitPrice,
		Quantity:      entity.Quantity,
		TotalAmount:   entity.TotalAmount,
		Currency:      entity.Currency,
		TransactionID: entity.TransactionID,
		BuyerEmail:    entity.BuyerEmail,
		BuyerName:     entity.BuyerName,
		Status:        entity.Status,
		CreatedAt:     entity.CreatedAt,
	}
}

func (OrderConverterImpl) ToEntity(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	return &domain.Order{
		ID:            model.ID,
		SettlementID:  model.SettlementID,
		ProductID:     model.ProductID,
		ProductName:   model.ProductName,
		MarketName:    model.MarketName,
		UnitPrice:     model.UnitPrice,
		Quantity:      model.Quantity,
		TotalAmount:   model.TotalAmount,
		Currency:      model.Currency,
		TransactionID: model.TransactionID,
		BuyerEmail:    model.BuyerEmail,
		BuyerName:     model.BuyerName,
		Status:        model.Status,
		CreatedAt:     model.CreatedAt,
	}
}

func (c OrderConverterImpl) ToArrEntity(models []OrderModel) []domain.Order {
	return lo.Map(models, func(m OrderModel, _ int) domain.Order { return *c.ToEntity(&m) })
}

type WatchlistConverterImpl struct{}

func NewWatchlistConverterImpl() *WatchlistConverterImpl { return &WatchlistConverterImpl{} }

func (WatchlistConverterImpl) ToEntity(model *WatchlistModel) *domain.WatchlistEntry {
	if model == nil {
		return nil
	}
	return &domain.WatchlistEntry{
		ID:          model.ID,
		UserEmail:   model.UserEmail,
		ProductID:   model.ProductID,
		ProductName: model.ProductName,
		MarketName:  model.MarketName,
		CreatedAt:   model.CreatedAt,
	}
}

func (c WatchlistConverterImpl) ToArrEntity(models []WatchlistModel) []domain.WatchlistEntry {
	return lo.Map(models, func(m WatchlistModel, _ int) domain.WatchlistEntry { return *c.ToEntity(&m) })
}

type UserConverterImpl struct{}

func NewUserConverterImpl() *UserConverterImpl { return &UserConverterImpl{} }

func (UserConverterImpl) ToEntity(model *UserModel) *domain.User {
	if model == nil {
		return nil
	}
	return &domain.User{
		Email:     model.Email,
		Name:      model.Name,
		Role:      domain.Role(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl { return &OutboxEventConverterImpl{} }

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	return lo.Map(models, func(m *OutboxEventModel, _ int) *usecase.OutboxEvent { return c.ToEntity(m) })
}

func (c UserConverterImpl) ToArrEntity(models []UserModel) []domain.User {
	return lo.Map(models, func(m UserModel, _ int) domain.User { return *c.ToEntity(&m) })
}

type ReviewConverterImpl struct{}

func NewReviewConverterImpl() *ReviewConverterImpl { return &ReviewConverterImpl{} }

func (ReviewConverterImpl) ToEntity(model *ReviewModel) *domain.Review {
	if model == nil {
		return nil
	}
	return &domain.Review{
		ID:        model.ID,
		ProductID: model.ProductID,
		UserEmail: model.UserEmail,
		UserName:  model.UserName,
		Comment:   model.Comment,
		Rating:    model.Rating,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (c ReviewConverterImpl) ToArrEntity(models []ReviewModel) []domain.Review {
	return lo.Map(models, func(m ReviewModel, _ int) domain.Review { return *c.ToEntity(&m) })
}
