package review

import (
	"context"
	"errors"

	"greenhaven/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, rev domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (user_id, product_id, rating, title, content)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, is_approved, created_at
`
	out := rev
	err := r.pool.QueryRow(ctx, q, rev.UserID, rev.ProductID, rev.Rating, rev.Title, rev.Content).
		Scan(&out.ID, &out.IsApproved, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateReview
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	const q = `
SELECT r.id::text, r.user_id::text, r.product_id::text, r.rating, r.title, r.content, r.is_approved,
       trim(u.first_name || ' ' || u.last_name), r.created_at
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.product_id = $1 AND r.is_approved
ORDER BY r.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.ProductID, &rev.Rating, &rev.Title, &rev.Content, &rev.IsApproved, &rev.AuthorName, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
