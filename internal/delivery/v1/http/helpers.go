package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const maxJSONBodySize = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// clientErrors: ошибки, текст которых безопасно показывать клиенту, и их HTTP-коды.
var clientErrors = []struct {
	err  error
	code int
}{
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrMissingFields, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrPricePrecision, http.StatusBadRequest},
	{e.ErrInvalidDate, http.StatusBadRequest},
	{e.ErrInvalidDateRange, http.StatusBadRequest},
	{e.ErrInvalidLimit, http.StatusBadRequest},
	{e.ErrInvalidPage, http.StatusBadRequest},
	{e.ErrInvalidSort, http.StatusBadRequest},
	{e.ErrInvalidQuantity, http.StatusBadRequest},
	{e.ErrInvalidStatus, http.StatusBadRequest},
	{e.ErrInvalidRole, http.StatusBadRequest},
	{e.ErrInvalidCurrency, http.StatusBadRequest},
	{e.ErrProductNameRequired, http.StatusBadRequest},
	{e.ErrMarketNameRequired, http.StatusBadRequest},
	{e.ErrTransactionIDRequired, http.StatusBadRequest},
	{e.ErrTransactionMismatch, http.StatusBadRequest},
	{e.ErrAmountTooLarge, http.StatusBadRequest},
	{e.ErrCommentRequired, http.StatusBadRequest},
	{e.ErrInvalidRating, http.StatusBadRequest},
	{e.ErrNameRequired, http.StatusBadRequest},

	{e.ErrUnauthenticated, http.StatusUnauthorized},
	{e.ErrForbidden, http.StatusForbidden},
	{e.ErrPaymentNotConfirmed, http.StatusPaymentRequired},

	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrNoDataForDate, http.StatusNotFound},
	{e.ErrSettlementNotFound, http.StatusNotFound},
	{e.ErrUserNotFound, http.StatusNotFound},
	{e.ErrWatchlistNotFound, http.StatusNotFound},
	{e.ErrReviewNotFound, http.StatusNotFound},

	{e.ErrAlreadyInWatchlist, http.StatusConflict},
	{e.ErrSettlementCompleted, http.StatusConflict},
	{e.ErrSettlementFailed, http.StatusConflict},
	{e.ErrInvalidTransition, http.StatusConflict},

	{e.ErrAuthorizationSetup, http.StatusBadGateway},
	{e.ErrPaymentProvider, http.StatusBadGateway},
	{e.ErrSettlementInconsistent, http.StatusInternalServerError},
}

// ToHTTPResponse переводит ошибку в HTTP-код и сообщение. Неизвестные ошибки
// становятся 500 без подробностей.
func ToHTTPResponse(err error) (int, string) {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return ce.code, ce.err.Error()
		}
	}
	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

// respondError пишет ошибку в лог и в ответ. 5xx логируются с полной цепочкой ошибки.
func respondError(log logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
	} else {
		log.Warnf("%d %s %s: %s", code, r.Method, r.URL.Path, err.Error())
	}
	WriteError(w, err)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля и лишние данные отклоняются.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return e.Wrap("trailing data after JSON body", e.ErrStatusBadRequest)
	}

	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(fmt.Sprintf("%s=%q", name, raw), e.ErrStatusBadRequest)
	}
	return id, nil
}

// queryInt читает положительное целое из query; отсутствующий параметр даёт def.
func queryInt(r *http.Request, name string, def int, invalid error) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, e.Wrap(fmt.Sprintf("%s=%q", name, raw), invalid)
	}
	return v, nil
}
