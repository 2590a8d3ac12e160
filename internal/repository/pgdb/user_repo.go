package pgdb

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert создаёт пользователя или обновляет имя существующего. Роль существующей записи не меняется.
func (u *UserRepo) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END,
			updated_at = NOW()
		RETURNING email, name, role, created_at, updated_at;
	`

	rows, err := tr.Executor(ctx, u.pool).Query(ctx, query, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.UserModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}

func (u *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT email, name, role, created_at, updated_at FROM users WHERE email = $1`

	rows, err := tr.Executor(ctx, u.pool).Query(ctx, query, email)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.UserModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrUserNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}

// Search ищет по подстроке имени или email без учёта регистра. Пустая строка возвращает всех.
func (u *UserRepo) Search(ctx context.Context, search string) ([]domain.User, error) {
	query := `SELECT email, name, role, created_at, updated_at FROM users`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, containsPattern(search))
	}
	query += ` ORDER BY created_at, email`

	rows, err := tr.Executor(ctx, u.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.UserModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToArrEntity(models), nil
}

func (u *UserRepo) UpdateName(ctx context.Context, email, name string) (*domain.User, error) {
	query := `
		UPDATE users SET name = $2, updated_at = NOW()
		WHERE email = $1
		RETURNING email, name, role, created_at, updated_at;
	`

	rows, err := tr.Executor(ctx, u.pool).Query(ctx, query, email, name)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.UserModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrUserNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}
