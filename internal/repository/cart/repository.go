package cart

import (
	"context"

	"greenhaven/internal/domain"
)

type Repository interface {
	// AddItem upserts the (user, product, variant) line, incrementing the
	// quantity when the line already exists. The resulting quantity is
	// validated against live inventory inside the same transaction;
	// domain.ErrInsufficientStock rolls the whole mutation back.
	AddItem(ctx context.Context, userID, productID string, variantID *string, quantity int) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
}
