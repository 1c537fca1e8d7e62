package cart

import (
	"context"
	"errors"

	"greenhaven/internal/domain"
	"greenhaven/internal/repository/inventory"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) AddItem(ctx context.Context, userID, productID string, variantID *string, quantity int) (*domain.CartItem, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Atomic increment: concurrent adds for the same tuple serialize on the
	// upserted row instead of racing a read-then-write.
	const upsert = `
INSERT INTO cart_items (user_id, product_id, variant_id, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, product_id, variant_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id::text, quantity
`
	var itemID string
	var newQuantity int
	if err := tx.QueryRow(ctx, upsert, userID, productID, variantID, quantity).Scan(&itemID, &newQuantity); err != nil {
		return nil, err
	}

	available, err := inventory.Available(ctx, tx, productID, variantID)
	if err != nil {
		return nil, err
	}
	if available < newQuantity {
		return nil, domain.ErrInsufficientStock
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.getItem(ctx, userID, itemID)
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var productID string
	var variantID *string
	err = tx.QueryRow(ctx, `
SELECT product_id::text, variant_id::text
FROM cart_items
WHERE id = $1 AND user_id = $2
FOR UPDATE
`, itemID, userID).Scan(&productID, &variantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	available, err := inventory.Available(ctx, tx, productID, variantID)
	if err != nil {
		return nil, err
	}
	if available < quantity {
		return nil, domain.ErrInsufficientStock
	}

	if _, err := tx.Exec(ctx, `UPDATE cart_items SET quantity = $3 WHERE id = $1 AND user_id = $2`, itemID, userID, quantity); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.getItem(ctx, userID, itemID)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, itemID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const itemQuery = `
SELECT ci.id::text, ci.user_id::text, ci.product_id::text, ci.variant_id::text, ci.quantity, ci.created_at,
       p.id::text, p.name, p.slug, p.price_cents, p.currency, p.inventory, p.status, img.url,
       v.id::text, v.name, v.sku, v.price_cents, v.inventory
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
LEFT JOIN product_variants v ON v.id = ci.variant_id
LEFT JOIN LATERAL (
	SELECT url FROM product_images WHERE product_id = p.id ORDER BY position ASC LIMIT 1
) img ON true
`

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, itemQuery+`WHERE ci.user_id = $1 ORDER BY ci.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) getItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, itemQuery+`WHERE ci.id = $1 AND ci.user_id = $2`, itemID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func scanItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	var p domain.Product
	var imageURL *string
	var vID, vName, vSKU *string
	var vPrice *int64
	var vInventory *int
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.VariantID,
		&item.Quantity,
		&item.CreatedAt,
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.PriceCents,
		&p.Currency,
		&p.Inventory,
		&p.Status,
		&imageURL,
		&vID,
		&vName,
		&vSKU,
		&vPrice,
		&vInventory,
	)
	if err != nil {
		return nil, err
	}
	if imageURL != nil {
		p.Images = []domain.ProductImage{{URL: *imageURL}}
	}
	item.Product = &p
	if vID != nil {
		item.Variant = &domain.Variant{
			ID:         *vID,
			ProductID:  p.ID,
			Name:       *vName,
			SKU:        *vSKU,
			PriceCents: *vPrice,
			Inventory:  *vInventory,
		}
	}
	return &item, nil
}
