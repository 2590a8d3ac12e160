package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userUsecase usecase.UserUC
	logger      logger.Logger
}

func NewUserHandler(userUsecase usecase.UserUC, logger logger.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger}
}

// registerUser
//
//	@Summary		Регистрация текущего пользователя
//	@Description	Идемпотентна. Новый пользователь получает роль user, роль существующего не меняется
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			user	body		registerUserRequest	false	"Отображаемое имя"
//	@Success		200		{object}	userResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/users [post]
func (u *UserHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())
	id := *identity

	if r.ContentLength != 0 {
		var req registerUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(u.logger, w, r, err)
			return
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			id.Name = name
		}
	}

	user, err := u.userUsecase.RegisterUser(r.Context(), id)
	if err != nil {
		respondError(u.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toUserResponse(user))
}

// getRole
//
//	@Summary	Роль пользователя
//	@Tags		users
//	@Produce	json
//	@Param		email	path		string	true	"Email"
//	@Success	200		{object}	roleResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/users/role/{email} [get]
func (u *UserHandler) getRole(w http.ResponseWriter, r *http.Request) {
	role, err := u.userUsecase.GetRole(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondError(u.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, roleResponse{Role: string(role)})
}

// listUsers
//
//	@Summary		Поиск пользователей
//	@Description	Подстрока имени или email без учёта регистра. Без search возвращает всех
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			search	query		string	false	"Подстрока имени или email"
//	@Success		200		{array}		userResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/users [get]
func (u *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := u.userUsecase.ListUsers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(u.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toUserResponses(users))
}

// updateMe
//
//	@Summary	Смена имени текущего пользователя
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		user	body		updateNameRequest	true	"Новое имя"
//	@Success	200		{object}	userResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/users/me [patch]
func (u *UserHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromCtx(r.Context())

	var req updateNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(u.logger, w, r, err)
		return
	}

	user, err := u.userUsecase.UpdateName(r.Context(), identity.Email, req.Name)
	if err != nil {
		respondError(u.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toUserResponse(user))
}
