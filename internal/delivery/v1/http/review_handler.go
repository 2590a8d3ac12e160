package http

import (
	"net/http"

	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUC
	logger        logger.Logger
}

func NewReviewHandler(reviewUsecase usecase.ReviewUC, logger logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviewUsecase: reviewUsecase, logger: logger}
}

// listReviews
//
//	@Summary	Отзывы о продукте
//	@Tags		reviews
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{array}		reviewResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/reviews [get]
func (h *ReviewHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt64(r, "id")
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	reviews, err := h.reviewUsecase.ListReviews(r.Context(), productID)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toReviewResponses(reviews))
}

// addReview
//
//	@Summary		Новый отзыв
//	@Description	Оценка от 1 до 5, комментарий обязателен
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int					true	"ID продукта"
//	@Param			review	body		addReviewRequest	true	"Отзыв"
//	@Success		201		{object}	reviewResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id}/reviews [post]
func (h *ReviewHandler) addReview(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	productID, err := pathInt64(r, "id")
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	var req addReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	review, err := h.reviewUsecase.AddReview(r.Context(), usecase.NewAddReviewReq(productID, *identity, req.Comment, req.Rating))
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toReviewResponse(review))
}

// updateReview
//
//	@Summary	Правка комментария
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"ID отзыва"
//	@Param		review	body		updateReviewRequest	true	"Новый комментарий"
//	@Success	200		{object}	reviewResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/reviews/{id} [patch]
func (h *ReviewHandler) updateReview(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	var req updateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	review, err := h.reviewUsecase.UpdateReview(r.Context(), usecase.NewUpdateReviewReq(id, identity.Email, req.Comment))
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toReviewResponse(review))
}

// deleteReview
//
//	@Summary	Удаление отзыва
//	@Tags		reviews
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID отзыва"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/reviews/{id} [delete]
func (h *ReviewHandler) deleteReview(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	req := usecase.NewDeleteReviewReq(id, identity.Email, roleFromCtx(r.Context()))
	if err := h.reviewUsecase.DeleteReview(r.Context(), req); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
