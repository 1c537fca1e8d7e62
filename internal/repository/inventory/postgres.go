package inventory

import (
	"context"
	"errors"

	"greenhaven/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so availability
// reads and conditional updates can run standalone or inside a caller's
// transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) CheckAvailable(ctx context.Context, productID string, variantID *string, quantity int) (bool, error) {
	available, err := Available(ctx, r.pool, productID, variantID)
	if err != nil {
		return false, err
	}
	return available >= quantity, nil
}

// Available returns the current stock count: the variant's when a variant id
// is given, the product's otherwise.
func Available(ctx context.Context, q querier, productID string, variantID *string) (int, error) {
	var available int
	var err error
	if variantID != nil {
		err = q.QueryRow(ctx, `SELECT inventory FROM product_variants WHERE id = $1 AND product_id = $2`, *variantID, productID).Scan(&available)
	} else {
		err = q.QueryRow(ctx, `SELECT inventory FROM products WHERE id = $1`, productID).Scan(&available)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return available, nil
}

// Decrement subtracts quantity from the stock count as a single conditional
// update. The WHERE guard makes check-and-decrement atomic: when the row no
// longer covers the quantity nothing is written and ErrInsufficientStock is
// returned. Callers must treat that as a signal to reject the whole mutation
// they were protecting, never to clamp.
func Decrement(ctx context.Context, q querier, productID string, variantID *string, quantity int) error {
	var cmd pgconn.CommandTag
	var err error
	if variantID != nil {
		cmd, err = q.Exec(ctx, `
UPDATE product_variants
SET inventory = inventory - $3
WHERE id = $1 AND product_id = $2 AND inventory >= $3
`, *variantID, productID, quantity)
	} else {
		cmd, err = q.Exec(ctx, `
UPDATE products
SET inventory = inventory - $2
WHERE id = $1 AND inventory >= $2
`, productID, quantity)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Restore adds quantity back, the inverse of Decrement. Used when a
// cancellable order releases its lines.
func Restore(ctx context.Context, q querier, productID string, variantID *string, quantity int) error {
	var cmd pgconn.CommandTag
	var err error
	if variantID != nil {
		cmd, err = q.Exec(ctx, `
UPDATE product_variants
SET inventory = inventory + $3
WHERE id = $1 AND product_id = $2
`, *variantID, productID, quantity)
	} else {
		cmd, err = q.Exec(ctx, `
UPDATE products
SET inventory = inventory + $2
WHERE id = $1
`, productID, quantity)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
