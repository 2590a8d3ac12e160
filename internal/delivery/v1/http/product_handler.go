package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, catalogUsecase: catalogUsecase, logger: logger}
}

// createProduct
//
//	@Summary		Публикация продукта
//	@Description	Создаёт продукт вендора в статусе pending, вместе с начальной историей цен
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			product	body		createProductRequest	true	"Продукт"
//	@Success		201		{object}	productResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	var req createProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		ItemName:          req.ItemName,
		MarketName:        req.MarketName,
		MarketDescription: req.MarketDescription,
		PricePerUnit:      req.PricePerUnit,
		CreatedOn:         req.CreatedOn,
		Prices:            toSampleInputs(req.Prices),
		Vendor:            *identity,
	})
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// getProduct
//
//	@Summary	Карточка продукта
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	productResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// updateProduct
//
//	@Summary		Изменение продукта
//	@Description	Заменяет атрибуты продукта. Если передано поле prices, серия заменяется целиком
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"ID продукта"
//	@Param			product	body		updateProductRequest	true	"Новые атрибуты"
//	@Success		200		{object}	productResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	var req updateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	ucReq := &usecase.UpdateProductReq{
		ID:                id,
		ItemName:          req.ItemName,
		MarketName:        req.MarketName,
		MarketDescription: req.MarketDescription,
		PricePerUnit:      req.PricePerUnit,
		VendorEmail:       identity.Email,
	}
	if req.Prices != nil {
		ucReq.ReplacePrices = true
		ucReq.Prices = toSampleInputs(*req.Prices)
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), ucReq)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление продукта
//	@Tags		products
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID продукта"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	req := usecase.NewDeleteProductReq(id, identity.Email, roleFromCtx(r.Context()))
	if err := p.productUsecase.DeleteProduct(r.Context(), req); err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listVendorProducts
//
//	@Summary	Продукты текущего вендора
//	@Tags		vendor
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	productResponse
//	@Router		/vendor/products [get]
func (p *ProductHandler) listVendorProducts(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	products, err := p.productUsecase.ListVendorProducts(r.Context(), identity.Email)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// updateStatus
//
//	@Summary	Модерация продукта
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"ID продукта"
//	@Param		status	body		updateStatusRequest	true	"Решение"
//	@Success	200		{object}	productResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id}/status [patch]
func (p *ProductHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.UpdateStatus(r.Context(),
		usecase.NewUpdateStatusReq(id, req.Status, req.RejectionReason, req.RejectionFeedback))
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listProducts
//
//	@Summary		Каталог
//	@Description	Фильтр по дате создания, сортировка по цене за единицу, пагинация
//	@Tags			products
//	@Produce		json
//	@Param			sort	query		string	false	"asc или desc"
//	@Param			start	query		string	false	"Начало диапазона, YYYY-MM-DD"
//	@Param			end		query		string	false	"Конец диапазона, YYYY-MM-DD"
//	@Param			status	query		string	false	"pending, approved или rejected"
//	@Param			page	query		int		false	"Номер страницы"	default(1)
//	@Param			limit	query		int		false	"Размер страницы"	default(6)
//	@Success		200		{object}	catalogResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	query, err := parseCatalogQuery(r)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	page, err := p.catalogUsecase.ListProducts(r.Context(), query)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCatalogResponse(page))
}

// featuredProducts
//
//	@Summary	Последние одобренные продукты
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	productResponse
//	@Router		/products/featured [get]
func (p *ProductHandler) featuredProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.catalogUsecase.FeaturedProducts(r.Context())
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

func parseCatalogQuery(r *http.Request) (domain.CatalogQuery, error) {
	q := r.URL.Query()
	query := domain.NewCatalogQuery()

	sort, err := domain.ToSortOrder(strings.ToLower(strings.TrimSpace(q.Get("sort"))))
	if err != nil {
		return query, err
	}
	query.Sort = sort

	if query.Start, err = queryDate(r, "start"); err != nil {
		return query, err
	}
	if query.End, err = queryDate(r, "end"); err != nil {
		return query, err
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := domain.ToProductStatus(raw)
		if err != nil {
			return query, err
		}
		query.Status = &status
	}

	if query.Page, err = queryInt(r, "page", domain.DefaultCatalogPage, e.ErrInvalidPage); err != nil {
		return query, err
	}
	if query.Limit, err = queryInt(r, "limit", domain.DefaultCatalogLimit, e.ErrInvalidLimit); err != nil {
		return query, err
	}

	return query, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
