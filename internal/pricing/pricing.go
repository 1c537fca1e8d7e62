// Package pricing computes order totals. All arithmetic is on integer cents
// so repeated computation over the same inputs is exact and deterministic;
// the result is persisted on the order at placement and never recomputed.
package pricing

// Line is one (unit price, quantity) entry of a cart or order.
type Line struct {
	UnitPriceCents int64
	Quantity       int
}

// Params carries the business constants. TaxRateBasisPoints is the tax rate
// in hundredths of a percent (800 = 8%).
type Params struct {
	TaxRateBasisPoints         int64
	FreeShippingThresholdCents int64
	FlatShippingFeeCents       int64
}

// Totals is the result of a computation. Total = Subtotal + Tax + Shipping -
// Discount, floored at zero.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	ShippingCents int64
	DiscountCents int64
	TotalCents    int64
}

// Compute derives totals from the given lines. Tax is rounded half-up on the
// minor unit. Shipping is waived only when the subtotal strictly exceeds the
// free-shipping threshold.
func Compute(lines []Line, discountCents int64, p Params) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPriceCents * int64(l.Quantity)
	}

	tax := (subtotal*p.TaxRateBasisPoints + 5000) / 10000

	shipping := p.FlatShippingFeeCents
	if subtotal > p.FreeShippingThresholdCents {
		shipping = 0
	}

	if discountCents < 0 {
		discountCents = 0
	}
	total := subtotal + tax + shipping - discountCents
	if total < 0 {
		total = 0
	}

	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		ShippingCents: shipping,
		DiscountCents: discountCents,
		TotalCents:    total,
	}
}
