package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

// ReviewUseCase ведёт отзывы о продуктах.
type ReviewUseCase struct {
	productRepo ProductRepository
	reviewRepo  ReviewRepository
	logger      logger.Logger
}

func NewReviewUC(productRepo ProductRepository, reviewRepo ReviewRepository, logger logger.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

// AddReview публикует отзыв. Некорректный комментарий или оценка отклоняются до обращения к хранилищу.
func (r *ReviewUseCase) AddReview(ctx context.Context, req *AddReviewReq) (*domain.Review, error) {
	const op = "ReviewUseCase.AddReview"

	review := domain.NewReview(req.ProductID, req.Author, req.Comment, req.Rating)
	if err := review.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := r.productRepo.GetByID(ctx, req.ProductID); err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := r.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	r.logger.Debugf("Review added: id=%d product_id=%d", created.ID, created.ProductID)

	return created, nil
}

// ListReviews возвращает отзывы продукта, новые первыми.
func (r *ReviewUseCase) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	const op = "ReviewUseCase.ListReviews"

	if _, err := r.productRepo.GetByID(ctx, productID); err != nil {
		return nil, e.Wrap(op, err)
	}

	reviews, err := r.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

func (r *ReviewUseCase) UpdateReview(ctx context.Context, req *UpdateReviewReq) (*domain.Review, error) {
	const op = "ReviewUseCase.UpdateReview"

	if err := domain.ValidateComment(req.Comment); err != nil {
		return nil, e.Wrap(op, err)
	}

	review, err := r.reviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !review.IsAuthor(req.AuthorEmail) {
		return nil, e.Wrap(op, e.ErrForbidden)
	}

	updated, err := r.reviewRepo.UpdateComment(ctx, req.ID, strings.TrimSpace(req.Comment))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// DeleteReview удаляет отзыв автора; администратор может удалить любой.
func (r *ReviewUseCase) DeleteReview(ctx context.Context, req *DeleteReviewReq) error {
	const op = "ReviewUseCase.DeleteReview"

	review, err := r.reviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if !review.CanDelete(req.ActorEmail, req.ActorRole) {
		return e.Wrap(op, e.ErrForbidden)
	}

	if err := r.reviewRepo.Delete(ctx, req.ID); err != nil {
		return e.Wrap(op, err)
	}

	r.logger.Infof("Review deleted: id=%d by=%s", req.ID, domain.NormalizeEmail(req.ActorEmail))

	return nil
}
