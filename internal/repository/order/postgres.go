package order

import (
	"context"
	"errors"
	"fmt"

	"greenhaven/internal/domain"
	"greenhaven/internal/repository/inventory"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
o.id::text, o.order_number, o.user_id::text, o.email, o.phone, o.status, o.payment_status,
o.subtotal_cents, o.tax_cents, o.shipping_cents, o.discount_cents, o.total_cents, o.currency,
o.shipping_address_id::text, o.billing_address_id::text, o.notes, o.created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Place(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (order_number, user_id, email, phone, status, payment_status,
                    subtotal_cents, tax_cents, shipping_cents, discount_cents, total_cents, currency,
                    shipping_address_id, billing_address_id, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id::text, created_at
`
	placed := *o
	err = tx.QueryRow(ctx, insertOrder,
		o.OrderNumber, o.UserID, o.Email, o.Phone, o.Status, o.PaymentStatus,
		o.SubtotalCents, o.TaxCents, o.ShippingCents, o.DiscountCents, o.TotalCents, o.Currency,
		o.ShippingAddressID, o.BillingAddressID, o.Notes,
	).Scan(&placed.ID, &placed.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, variant_id, quantity, unit_price_cents, total_cents, product_name)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text
`
	placed.Items = make([]domain.OrderItem, len(o.Items))
	for i, line := range o.Items {
		line.OrderID = placed.ID
		err := tx.QueryRow(ctx, insertItem,
			placed.ID, line.ProductID, line.VariantID, line.Quantity,
			line.UnitPriceCents, line.TotalCents, line.ProductName,
		).Scan(&line.ID)
		if err != nil {
			return nil, err
		}
		if err := inventory.Decrement(ctx, tx, line.ProductID, line.VariantID, line.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, fmt.Errorf("product %s: %w", line.ProductID, err)
			}
			return nil, err
		}
		placed.Items[i] = line
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, o.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &placed, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2, payment_status = $3 WHERE id = $1`, orderID, status, paymentStatus)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status domain.OrderStatus
	var paymentStatus domain.PaymentStatus
	err = tx.QueryRow(ctx, `
SELECT status, payment_status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE
`, orderID, userID).Scan(&status, &paymentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !domain.CanTransition(status, domain.OrderStatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}

	rows, err := tx.Query(ctx, `
SELECT product_id::text, variant_id::text, quantity FROM order_items WHERE order_id = $1
`, orderID)
	if err != nil {
		return nil, err
	}
	type line struct {
		productID string
		variantID *string
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.variantID, &l.quantity); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := inventory.Restore(ctx, tx, l.productID, l.variantID, l.quantity); err != nil {
			return nil, err
		}
	}

	if paymentStatus == domain.PaymentStatusPaid {
		paymentStatus = domain.PaymentStatusRefunded
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $2, payment_status = $3 WHERE id = $1`, orderID, domain.OrderStatusCancelled, paymentStatus); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1 AND o.user_id = $2 LIMIT 1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, orderID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	orders := []domain.Order{*o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := r.attachShippingAddresses(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := r.attachShippingAddresses(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	const q = `
SELECT oi.id::text, oi.order_id::text, oi.product_id::text, oi.variant_id::text, oi.quantity,
       oi.unit_price_cents, oi.total_cents, oi.product_name,
       p.slug, img.url
FROM order_items oi
JOIN products p ON p.id = oi.product_id
LEFT JOIN LATERAL (
	SELECT url FROM product_images WHERE product_id = p.id ORDER BY position ASC LIMIT 1
) img ON true
WHERE oi.order_id = ANY($1)
ORDER BY oi.id
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var slug string
		var imageURL *string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Quantity,
			&item.UnitPriceCents, &item.TotalCents, &item.ProductName, &slug, &imageURL); err != nil {
			return err
		}
		p := &domain.Product{ID: item.ProductID, Name: item.ProductName, Slug: slug}
		if imageURL != nil {
			p.Images = []domain.ProductImage{{URL: *imageURL}}
		}
		item.Product = p
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) attachShippingAddresses(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ShippingAddressID)
	}

	const q = `
SELECT id::text, user_id::text, type, first_name, last_name, company, address1, address2,
       city, state, postal_code, country, phone, is_default, created_at
FROM addresses
WHERE id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[string]domain.Address)
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.FirstName, &a.LastName, &a.Company,
			&a.Address1, &a.Address2, &a.City, &a.State, &a.PostalCode, &a.Country,
			&a.Phone, &a.IsDefault, &a.CreatedAt); err != nil {
			return err
		}
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range orders {
		if a, ok := byID[orders[i].ShippingAddressID]; ok {
			addr := a
			orders[i].ShippingAddress = &addr
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Email,
		&o.Phone,
		&o.Status,
		&o.PaymentStatus,
		&o.SubtotalCents,
		&o.TaxCents,
		&o.ShippingCents,
		&o.DiscountCents,
		&o.TotalCents,
		&o.Currency,
		&o.ShippingAddressID,
		&o.BillingAddressID,
		&o.Notes,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
