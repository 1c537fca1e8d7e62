package wishlist

import (
	"context"

	"greenhaven/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	const q = `
INSERT INTO wishlist_items (user_id, product_id)
VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id::text, created_at
`
	item := domain.WishlistItem{UserID: userID, ProductID: productID}
	if err := r.pool.QueryRow(ctx, q, userID, productID).Scan(&item.ID, &item.CreatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Contains(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)
`, userID, productID).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	const q = `
SELECT w.id::text, w.user_id::text, w.product_id::text, w.created_at,
       p.id::text, p.name, p.slug, p.price_cents, p.currency, p.inventory, p.status, img.url
FROM wishlist_items w
JOIN products p ON p.id = w.product_id
LEFT JOIN LATERAL (
	SELECT url FROM product_images WHERE product_id = p.id ORDER BY position ASC LIMIT 1
) img ON true
WHERE w.user_id = $1
ORDER BY w.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		var p domain.Product
		var imageURL *string
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.Name, &p.Slug, &p.PriceCents, &p.Currency, &p.Inventory, &p.Status, &imageURL); err != nil {
			return nil, err
		}
		if imageURL != nil {
			p.Images = []domain.ProductImage{{URL: *imageURL}}
		}
		item.Product = &p
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
