package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewer = domain.Identity{UID: "uid-2", Email: "Reviewer@Example.com", Name: "Bea"}

func newReviewFixture() (*memStore, *ReviewUseCase, *domain.Product) {
	store := newMemStore()
	uc := NewReviewUC(&fakeProductRepo{memStore: store}, &fakeReviewRepo{memStore: store}, logger.NewNopLogger())
	p := store.addProduct(domain.NewProduct(gofakeit.Fruit(), gofakeit.Company(), "", decimal.NewFromInt(10), time.Now(), nil))
	return store, uc, p
}

func TestReviewUseCase_AddAndList(t *testing.T) {
	ctx := context.Background()
	_, uc, p := newReviewFixture()

	empty, err := uc.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := uc.AddReview(ctx, NewAddReviewReq(p.ID, reviewer, " fresh ", 5))
	require.NoError(t, err)
	assert.Equal(t, "reviewer@example.com", first.UserEmail)
	assert.Equal(t, "fresh", first.Comment)

	second, err := uc.AddReview(ctx, NewAddReviewReq(p.ID, reviewer, "pricey", 2))
	require.NoError(t, err)

	reviews, err := uc.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, []int64{second.ID, first.ID}, []int64{reviews[0].ID, reviews[1].ID}, "newest first")

	_, err = uc.ListReviews(ctx, 404)
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestReviewUseCase_AddReview_Errors(t *testing.T) {
	tests := []struct {
		name      string
		productID func(p *domain.Product) int64
		comment   string
		rating    int
		wantErr   error
	}{
		{name: "missing product", productID: func(*domain.Product) int64 { return 404 }, comment: "ok", rating: 4, wantErr: e.ErrProductNotFound},
		{name: "blank comment", productID: func(p *domain.Product) int64 { return p.ID }, comment: " ", rating: 4, wantErr: e.ErrCommentRequired},
		{name: "rating out of range", productID: func(p *domain.Product) int64 { return p.ID }, comment: "ok", rating: 0, wantErr: e.ErrInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, uc, p := newReviewFixture()

			_, err := uc.AddReview(context.Background(), NewAddReviewReq(tt.productID(p), reviewer, tt.comment, tt.rating))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.reviews)
		})
	}
}

func TestReviewUseCase_UpdateReview(t *testing.T) {
	ctx := context.Background()
	_, uc, p := newReviewFixture()
	review, err := uc.AddReview(ctx, NewAddReviewReq(p.ID, reviewer, "fresh", 5))
	require.NoError(t, err)

	_, err = uc.UpdateReview(ctx, NewUpdateReviewReq(review.ID, "other@example.com", "spam"))
	require.ErrorIs(t, err, e.ErrForbidden)

	_, err = uc.UpdateReview(ctx, NewUpdateReviewReq(review.ID, reviewer.Email, "  "))
	require.ErrorIs(t, err, e.ErrCommentRequired)

	_, err = uc.UpdateReview(ctx, NewUpdateReviewReq(999, reviewer.Email, "x"))
	require.ErrorIs(t, err, e.ErrReviewNotFound)

	updated, err := uc.UpdateReview(ctx, NewUpdateReviewReq(review.ID, " reviewer@example.com", " still fresh "))
	require.NoError(t, err)
	assert.Equal(t, "still fresh", updated.Comment)
	assert.Equal(t, 5, updated.Rating)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestReviewUseCase_DeleteReview(t *testing.T) {
	ctx := context.Background()
	store, uc, p := newReviewFixture()

	own, err := uc.AddReview(ctx, NewAddReviewReq(p.ID, reviewer, "fresh", 5))
	require.NoError(t, err)
	moderated, err := uc.AddReview(ctx, NewAddReviewReq(p.ID, reviewer, "rude", 1))
	require.NoError(t, err)

	err = uc.DeleteReview(ctx, NewDeleteReviewReq(own.ID, "vendor@example.com", domain.RoleVendor))
	require.ErrorIs(t, err, e.ErrForbidden)

	require.NoError(t, uc.DeleteReview(ctx, NewDeleteReviewReq(own.ID, reviewer.Email, domain.RoleUser)))
	require.NoError(t, uc.DeleteReview(ctx, NewDeleteReviewReq(moderated.ID, "admin@example.com", domain.RoleAdmin)))
	assert.Empty(t, store.reviews)

	err = uc.DeleteReview(ctx, NewDeleteReviewReq(own.ID, reviewer.Email, domain.RoleUser))
	require.ErrorIs(t, err, e.ErrReviewNotFound)
}
