package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/market-backend/pkg/e"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review: отзыв пользователя о продукте. Комментарий может менять только автор.
type Review struct {
	ID        int64
	ProductID int64
	UserEmail string
	UserName  string
	Comment   string
	Rating    int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewReview(productID int64, author Identity, comment string, rating int) *Review {
	return &Review{
		ProductID: productID,
		UserEmail: NormalizeEmail(author.Email),
		UserName:  strings.TrimSpace(author.Name),
		Comment:   strings.TrimSpace(comment),
		Rating:    rating,
	}
}

func (r *Review) Validate() error {
	if err := ValidateComment(r.Comment); err != nil {
		return err
	}

	if r.Rating < MinRating || r.Rating > MaxRating {
		return e.ErrInvalidRating
	}

	return nil
}

func ValidateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return e.ErrCommentRequired
	}
	return nil
}

// CanDelete: удалить отзыв может автор или администратор.
func (r *Review) CanDelete(actorEmail string, actorRole Role) bool {
	return actorRole == RoleAdmin || r.IsAuthor(actorEmail)
}

func (r *Review) IsAuthor(email string) bool {
	return r.UserEmail == NormalizeEmail(email)
}
