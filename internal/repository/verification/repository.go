package verification

import (
	"context"
	"time"
)

// Repository stores single-use email verification tokens.
type Repository interface {
	Create(ctx context.Context, token, email string, expiresAt time.Time) error
	// Consume deletes the token and returns the email it was issued for.
	// Expired or unknown tokens return domain.ErrNotFound.
	Consume(ctx context.Context, token string) (string, error)
}
