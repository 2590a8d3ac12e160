package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	roleKey
)

// withLogging пишет в лог метод, путь, статус, длительность и request id каждого запроса.
func withLogging(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log.Infof("http request: method=%s path=%s status=%d bytes=%d duration=%s request_id=%s",
				r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}

// Auth проверяет Bearer-токен и достаёт роль вызывающего из справочника ролей.
type Auth struct {
	verifier usecase.IdentityVerifier
	userUC   usecase.UserUC
	logger   logger.Logger
}

func NewAuth(verifier usecase.IdentityVerifier, userUC usecase.UserUC, logger logger.Logger) *Auth {
	return &Auth{verifier: verifier, userUC: userUC, logger: logger}
}

// Authenticate кладёт проверенную личность в контекст. Без валидного токена отвечает 401.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			WriteError(w, e.ErrUnauthenticated)
			return
		}

		identity, err := a.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			a.logger.Warnf("%d %s: %s", http.StatusUnauthorized, r.URL.Path, err.Error())
			WriteError(w, e.ErrUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole пропускает только пользователей с одной из ролей. Роль читается на каждый запрос.
// Должен стоять после Authenticate.
func (a *Auth) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromCtx(r.Context())
			if !ok {
				WriteError(w, e.ErrUnauthenticated)
				return
			}

			role, err := a.userUC.GetRole(r.Context(), identity.Email)
			if err != nil {
				if errors.Is(err, e.ErrUserNotFound) {
					WriteError(w, e.ErrForbidden)
					return
				}
				a.logger.Errorf(err, "role lookup failed: email=%s", identity.Email)
				WriteError(w, err)
				return
			}

			if !lo.Contains(roles, role) {
				a.logger.Warnf("%d %s: role=%s email=%s", http.StatusForbidden, r.URL.Path, role, identity.Email)
				WriteError(w, e.ErrForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func identityFromCtx(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

func roleFromCtx(ctx context.Context) domain.Role {
	role, _ := ctx.Value(roleKey).(domain.Role)
	return role
}
