package inventory

import "context"

// Repository is the authoritative stock-count source. Every stock-affecting
// mutation in the system goes through this package; no other component
// updates product or variant inventory directly.
type Repository interface {
	// CheckAvailable reports whether the latest committed stock count for
	// the product (or its variant, when given) covers the quantity.
	CheckAvailable(ctx context.Context, productID string, variantID *string, quantity int) (bool, error)
}
