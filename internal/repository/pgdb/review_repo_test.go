package pgdb_test

import (
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *repositorySuite) TestReviewRepo_Lifecycle() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("vendor@example.com", "10.00", day("2024-03-01"), domain.ProductStatusApproved)
	author := domain.Identity{Email: "bea@example.com", Name: "Bea"}

	first, err := s.reviews.Create(ctx, domain.NewReview(p.ID, author, "fresh", 5))
	require.NoError(t, err)
	assert.Positive(t, first.ID)
	assert.Equal(t, "bea@example.com", first.UserEmail)
	assert.Nil(t, first.UpdatedAt)

	second, err := s.reviews.Create(ctx, domain.NewReview(p.ID, author, "pricey", 2))
	require.NoError(t, err)

	listed, err := s.reviews.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)

	updated, err := s.reviews.UpdateComment(ctx, first.ID, "still fresh")
	require.NoError(t, err)
	assert.Equal(t, "still fresh", updated.Comment)
	assert.Equal(t, 5, updated.Rating)
	assert.NotNil(t, updated.UpdatedAt)

	require.NoError(t, s.reviews.Delete(ctx, first.ID))
	require.ErrorIs(t, s.reviews.Delete(ctx, first.ID), e.ErrReviewNotFound)

	_, err = s.reviews.GetByID(ctx, first.ID)
	require.ErrorIs(t, err, e.ErrReviewNotFound)

	_, err = s.reviews.UpdateComment(ctx, first.ID, "gone")
	require.ErrorIs(t, err, e.ErrReviewNotFound)
}

func (s *repositorySuite) TestReviewRepo_UnknownProductAndCascade() {
	t := s.T()
	ctx := t.Context()

	_, err := s.reviews.Create(ctx, domain.NewReview(404, domain.Identity{Email: "bea@example.com"}, "ghost", 3))
	require.ErrorIs(t, err, e.ErrProductNotFound)

	p := s.createProduct("vendor@example.com", "10.00", day("2024-03-01"), domain.ProductStatusApproved)
	_, err = s.reviews.Create(ctx, domain.NewReview(p.ID, domain.Identity{Email: "bea@example.com"}, "ok", 4))
	require.NoError(t, err)

	_, err = s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, p.ID)
	require.NoError(t, err)

	listed, err := s.reviews.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
