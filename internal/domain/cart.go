package domain

// LineItem is a product plus the quantity of it currently in the cart.
// A present line always has Quantity >= 1; decrementing the last unit
// removes the line instead of leaving it at zero.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price times quantity for this line.
func (li LineItem) LineTotal() int64 {
	return li.Product.Price * int64(li.Quantity)
}

// StoredLineItem is the persisted shape of a line item. Only the product id
// and quantity are stored; product data is re-hydrated from the catalog on
// restore so a price change never resurrects a stale snapshot.
type StoredLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// PricingResult is the full price breakdown for a set of line items.
// Recomputed from its inputs on every query, never stored on its own.
type PricingResult struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}
