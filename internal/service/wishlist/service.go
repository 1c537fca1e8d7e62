package wishlist

import (
	"context"

	"greenhaven/internal/domain"
)

type Service struct {
	repo     wishlistRepo
	products productRepo
}

type wishlistRepo interface {
	Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo wishlistRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, userID, productID)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	return s.repo.Remove(ctx, userID, productID)
}

func (s *Service) Contains(ctx context.Context, userID, productID string) (bool, error) {
	return s.repo.Contains(ctx, userID, productID)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return items, nil
}
