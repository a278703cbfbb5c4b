// Package pricing computes price breakdowns for a set of cart line items.
// All amounts are int64 in the smallest currency unit.
package pricing

import (
	"math"

	"github.com/jerico-c/cashier-app/internal/domain"
)

// Compute returns the price breakdown for the given line items, flat
// discount and tax rate. It is a pure function: identical inputs always
// produce identical results.
//
// Tax is rounded half away from zero to the smallest currency unit. The
// discount applies after tax; when it exceeds subtotal+tax the total floors
// at zero rather than going negative. A negative discount is clamped to
// zero (callers validate at the boundary, the floor invariant holds here
// regardless).
func Compute(items []domain.LineItem, discount int64, taxRate float64) domain.PricingResult {
	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	if discount < 0 {
		discount = 0
	}

	tax := roundHalfUp(float64(subtotal) * taxRate)

	total := subtotal + tax - discount
	if total < 0 {
		total = 0
	}

	return domain.PricingResult{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
