package verification

import (
	"context"
	"errors"
	"time"

	"greenhaven/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, token, email string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO email_verifications (token, email, expires_at) VALUES ($1, $2, $3)
`, token, email, expiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Consume(ctx context.Context, token string) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx, `
DELETE FROM email_verifications WHERE token = $1 AND expires_at > now() RETURNING email
`, token).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return email, nil
}
