package domain

import "time"

// CartItem is one line in a user's cart. At most one row exists per
// (user, product, variant) tuple; adding the same combination again
// increments the quantity instead of duplicating the row.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	VariantID *string   `json:"variantId,omitempty"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	Variant   *Variant  `json:"variant,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnitPriceCents returns the effective unit price of the line: the variant's
// price when a variant is attached, the product's otherwise.
func (i CartItem) UnitPriceCents() int64 {
	if i.Variant != nil {
		return i.Variant.PriceCents
	}
	if i.Product != nil {
		return i.Product.PriceCents
	}
	return 0
}
