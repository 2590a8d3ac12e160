package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
)

// OrderUseCase: чтение журнала заказов. Заказы создаются только координатором расчётов.
type OrderUseCase struct {
	orderRepo OrderRepository
}

func NewOrderUC(orderRepo OrderRepository) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo}
}

func (o *OrderUseCase) ListBuyerOrders(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	const op = "OrderUseCase.ListBuyerOrders"

	orders, err := o.orderRepo.ListByBuyer(ctx, domain.NormalizeEmail(buyerEmail))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

// SearchOrders ищет заказы по подстроке в имени или email покупателя без учёта регистра.
// Пустая строка возвращает все заказы.
func (o *OrderUseCase) SearchOrders(ctx context.Context, search string) ([]domain.Order, error) {
	const op = "OrderUseCase.SearchOrders"

	orders, err := o.orderRepo.Search(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}
