package wishlist

import (
	"context"

	"greenhaven/internal/domain"
)

type Repository interface {
	// Add is idempotent set insertion: adding a product already on the
	// wishlist returns the existing item.
	Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
}
