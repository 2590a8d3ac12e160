package pgdb_test

import (
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *repositorySuite) TestUserRepo_UpsertNeverChangesRole() {
	t := s.T()
	ctx := t.Context()

	created, err := s.users.Upsert(ctx, &domain.User{Email: "admin@example.com", Name: "Ada", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)

	_, err = s.pool.Exec(ctx, `UPDATE users SET role = 'admin' WHERE email = $1`, "admin@example.com")
	require.NoError(t, err)

	again, err := s.users.Upsert(ctx, &domain.User{Email: "admin@example.com", Name: "", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, again.Role)
	assert.Equal(t, "Ada", again.Name)
	assert.NotNil(t, again.UpdatedAt)

	got, err := s.users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	_, err = s.users.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, e.ErrUserNotFound)
}

func (s *repositorySuite) TestUserRepo_SearchAndUpdateName() {
	t := s.T()
	ctx := t.Context()

	for _, u := range []domain.User{
		{Email: "rahim@example.com", Name: "Rahim Uddin", Role: domain.RoleUser},
		{Email: "karim@shop.com", Name: "Karim", Role: domain.RoleVendor},
	} {
		_, err := s.users.Upsert(ctx, &u)
		require.NoError(t, err)
	}

	all, err := s.users.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := s.users.Search(ctx, "uddin")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "rahim@example.com", byName[0].Email)

	byEmail, err := s.users.Search(ctx, "SHOP")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "karim@shop.com", byEmail[0].Email)

	wildcard, err := s.users.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, wildcard)

	renamed, err := s.users.UpdateName(ctx, "karim@shop.com", "Karim Store")
	require.NoError(t, err)
	assert.Equal(t, "Karim Store", renamed.Name)
	assert.Equal(t, domain.RoleVendor, renamed.Role)
	assert.NotNil(t, renamed.UpdatedAt)

	_, err = s.users.UpdateName(ctx, "ghost@example.com", "Ghost")
	require.ErrorIs(t, err, e.ErrUserNotFound)
}
