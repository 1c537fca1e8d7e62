package user

import (
	"context"

	"greenhaven/internal/domain"
)

// UpdateInput carries mutable profile fields. Nil pointers leave the stored
// value untouched.
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	DateOfBirth *string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error)
	MarkEmailVerified(ctx context.Context, email string) error
}
