package order

import (
	"context"

	"greenhaven/internal/domain"
)

type Repository interface {
	// Place persists the order and its lines, decrements inventory for every
	// line, and clears the user's cart, all inside one transaction. A stock
	// shortfall on any line returns domain.ErrInsufficientStock and leaves
	// nothing written. An order-number collision returns
	// domain.ErrAlreadyExists so the caller can regenerate and retry.
	Place(ctx context.Context, o *domain.Order) (*domain.Order, error)
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
	// Cancel moves the order to CANCELLED and restores the inventory its
	// lines had claimed, in one transaction. Orders past CONFIRMED return
	// domain.ErrInvalidTransition.
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
