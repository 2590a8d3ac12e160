package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

type PriceHandler struct {
	priceUsecase usecase.PriceUC
	logger       logger.Logger
}

func NewPriceHandler(priceUsecase usecase.PriceUC, logger logger.Logger) *PriceHandler {
	return &PriceHandler{priceUsecase: priceUsecase, logger: logger}
}

// getPrices
//
//	@Summary	История цен продукта
//	@Tags		prices
//	@Produce	json
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	priceSeriesResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/prices [get]
func (p *PriceHandler) getPrices(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	series, err := p.priceUsecase.GetPrices(r.Context(), id)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, priceSeriesResponse{ProductID: id, Prices: toSampleDTOs(series)})
}

// appendPrice
//
//	@Summary	Добавление наблюдения цены
//	@Tags		prices
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"ID продукта"
//	@Param		sample	body		priceSampleDTO	true	"Наблюдение"
//	@Success	201		{object}	priceSampleDTO
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id}/prices [post]
func (p *PriceHandler) appendPrice(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	var req priceSampleDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	sample, err := p.priceUsecase.AppendPrice(r.Context(),
		usecase.NewAppendPriceReq(id, identity.Email, usecase.NewPriceSampleInput(req.Date, req.Price)))
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, priceSampleDTO{Date: sample.DateString(), Price: sample.Price})
}

// replacePrices
//
//	@Summary	Замена всей истории цен
//	@Tags		prices
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"ID продукта"
//	@Param		prices	body		replacePricesRequest	true	"Новая серия"
//	@Success	200		{object}	priceSeriesResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id}/prices [put]
func (p *PriceHandler) replacePrices(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	var req replacePricesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	series, err := p.priceUsecase.ReplacePrices(r.Context(),
		usecase.NewReplacePricesReq(id, identity.Email, toSampleInputs(req.Prices)))
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, priceSeriesResponse{ProductID: id, Prices: toSampleDTOs(series)})
}

// comparePrices
//
//	@Summary		Сравнение цены с датой
//	@Description	Сравнивает последнюю добавленную цену с ценой на точную дату
//	@Tags			prices
//	@Produce		json
//	@Param			id		path		int		true	"ID продукта"
//	@Param			date	query		string	true	"Опорная дата, YYYY-MM-DD"
//	@Success		200		{object}	comparisonResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Нет данных на дату"
//	@Router			/products/{id}/prices/compare [get]
func (p *PriceHandler) comparePrices(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		respondError(p.logger, w, r, e.Wrap("date", e.ErrMissingFields))
		return
	}

	cmp, err := p.priceUsecase.ComparePrices(r.Context(), usecase.NewComparePricesReq(id, date))
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toComparisonResponse(cmp))
}
