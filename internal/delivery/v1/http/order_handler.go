package http

import (
	"net/http"

	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

// OrderHandler обслуживает оплату, заказы покупателя и административные выборки.
type OrderHandler struct {
	settlementUsecase usecase.SettlementUC
	orderUsecase      usecase.OrderUC
	logger            logger.Logger
}

func NewOrderHandler(settlementUsecase usecase.SettlementUC, orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{settlementUsecase: settlementUsecase, orderUsecase: orderUsecase, logger: logger}
}

// createPaymentIntent
//
//	@Summary		Создание платёжного намерения
//	@Description	Считает сумму покупки и возвращает client_secret для подтверждения оплаты картой
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			intent	body		createPaymentIntentRequest	true	"Покупка"
//	@Success		201		{object}	paymentIntentResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/payments/intents [post]
func (o *OrderHandler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	var req createPaymentIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	res, err := o.settlementUsecase.CreatePaymentIntent(r.Context(),
		usecase.NewCreatePaymentIntentReq(req.ProductID, req.Quantity, *identity))
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toPaymentIntentResponse(res))
}

// settleOrder
//
//	@Summary		Запись заказа после оплаты
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			order	body		settleOrderRequest	true	"Подтверждённая оплата"
//	@Success		201		{object}	orderResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		402		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/orders [post]
func (o *OrderHandler) settleOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	var req settleOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	order, err := o.settlementUsecase.SettleOrder(r.Context(),
		usecase.NewSettleOrderReq(req.SettlementID, req.TransactionID, *identity))
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(order))
}

// listOrders
//
//	@Summary	Заказы текущего покупателя
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	orderResponse
//	@Router		/orders [get]
func (o *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	orders, err := o.orderUsecase.ListBuyerOrders(r.Context(), identity.Email)
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponses(orders))
}

// searchOrders
//
//	@Summary	Поиск заказов по имени или email покупателя
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		search	query	string	false	"Подстрока"
//	@Success	200		{array}	orderResponse
//	@Router		/admin/orders [get]
func (o *OrderHandler) searchOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := o.orderUsecase.SearchOrders(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponses(orders))
}

// listReconciliation
//
//	@Summary	Расчёты с оплатой без записанного заказа
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	settlementResponse
//	@Router		/admin/settlements/reconciliation [get]
func (o *OrderHandler) listReconciliation(w http.ResponseWriter, r *http.Request) {
	settlements, err := o.settlementUsecase.ListPendingReconciliation(r.Context())
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSettlementResponses(settlements))
}
