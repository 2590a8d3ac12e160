package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
)

// UserUseCase: справочник ролей. Роль читается из БД на каждый запрос и не кэшируется.
type UserUseCase struct {
	userRepo UserRepository
}

func NewUserUC(userRepo UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// RegisterUser идемпотентно регистрирует пользователя с ролью user.
// Роль существующего пользователя не меняется.
func (u *UserUseCase) RegisterUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	const op = "UserUseCase.RegisterUser"

	email := domain.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, e.Wrap(op, e.ErrUnauthenticated)
	}

	user, err := u.userRepo.Upsert(ctx, &domain.User{
		Email: email,
		Name:  identity.Name,
		Role:  domain.RoleUser,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

func (u *UserUseCase) GetRole(ctx context.Context, email string) (domain.Role, error) {
	const op = "UserUseCase.GetRole"

	user, err := u.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return user.Role, nil
}

// ListUsers ищет пользователей по подстроке имени или email без учёта регистра.
func (u *UserUseCase) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	const op = "UserUseCase.ListUsers"

	users, err := u.userRepo.Search(ctx, search)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, nil
}

// UpdateName меняет отображаемое имя пользователя. Роль не меняется.
func (u *UserUseCase) UpdateName(ctx context.Context, email, name string) (*domain.User, error) {
	const op = "UserUseCase.UpdateName"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}

	user, err := u.userRepo.UpdateName(ctx, domain.NormalizeEmail(email), name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}
