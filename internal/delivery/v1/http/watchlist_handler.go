package http

import (
	"net/http"

	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

type WatchlistHandler struct {
	watchlistUsecase usecase.WatchlistUC
	logger           logger.Logger
}

func NewWatchlistHandler(watchlistUsecase usecase.WatchlistUC, logger logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistUsecase: watchlistUsecase, logger: logger}
}

// addToWatchlist
//
//	@Summary	Добавление продукта в watchlist
//	@Tags		watchlist
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		entry	body		addToWatchlistRequest	true	"Продукт"
//	@Success	201		{object}	watchlistEntryResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"Уже в watchlist"
//	@Router		/watchlist [post]
func (h *WatchlistHandler) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	var req addToWatchlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	entry, err := h.watchlistUsecase.AddToWatchlist(r.Context(), usecase.NewAddToWatchlistReq(identity.Email, req.ProductID))
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toWatchlistResponse(entry))
}

// listWatchlist
//
//	@Summary	Watchlist текущего пользователя
//	@Tags		watchlist
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	watchlistEntryResponse
//	@Router		/watchlist [get]
func (h *WatchlistHandler) listWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	entries, err := h.watchlistUsecase.ListWatchlist(r.Context(), identity.Email)
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toWatchlistResponses(entries))
}

// removeFromWatchlist
//
//	@Summary	Удаление записи watchlist
//	@Tags		watchlist
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID записи"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/watchlist/{id} [delete]
func (h *WatchlistHandler) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	id, err := pathInt64(r, "id")
	if err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	if err := h.watchlistUsecase.RemoveFromWatchlist(r.Context(), id, identity.Email); err != nil {
		respondError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
