package review

import (
	"context"

	"greenhaven/internal/domain"
)

type Repository interface {
	// Create inserts an unapproved review. A second review by the same user
	// for the same product returns domain.ErrDuplicateReview.
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}
