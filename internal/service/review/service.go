package review

import (
	"context"
	"strings"

	"greenhaven/internal/domain"
)

type Service struct {
	repo     reviewRepo
	products productRepo
}

type reviewRepo interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo reviewRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

type Input struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create submits a review. The review lands unapproved and stays invisible
// until moderated.
func (s *Service) Create(ctx context.Context, userID, productID string, in Input) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.ErrInvalidReview
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Title:     in.Title,
		Content:   in.Content,
	})
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
