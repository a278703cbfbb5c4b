// Package cart holds the in-progress cart for a cashier session: an ordered
// list of line items with add/increment/decrement semantics.
package cart

import "github.com/jerico-c/cashier-app/internal/domain"

// Delta values accepted by ChangeQuantity.
const (
	Increment = 1
	Decrement = -1
)

// Cart is an ordered sequence of line items, one per product id, in
// insertion order. It is not safe for concurrent use; the owning session
// serializes access.
type Cart struct {
	lines []domain.LineItem
}

func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from persisted line items. Lines with a
// non-positive quantity are dropped and duplicate product ids are merged,
// so the cart invariants hold even for a hand-edited or corrupt blob.
func Restore(lines []domain.LineItem) *Cart {
	c := New()
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		merged := false
		for i := range c.lines {
			if c.lines[i].Product.ID == line.Product.ID {
				c.lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c.lines = append(c.lines, line)
		}
	}
	return c
}

// Add puts one unit of the product in the cart: an existing line is
// incremented, otherwise a new line is appended with quantity 1.
func (c *Cart) Add(p domain.Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, domain.LineItem{Product: p, Quantity: 1})
}

// ChangeQuantity applies delta to the line for productID. An unknown id is
// a silent no-op. A line whose quantity drops to zero is removed entirely.
func (c *Cart) ChangeQuantity(productID int64, delta int) {
	for i := range c.lines {
		if c.lines[i].Product.ID != productID {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Items returns a copy of the line items in insertion order. Mutating the
// returned slice does not affect the cart.
func (c *Cart) Items() []domain.LineItem {
	items := make([]domain.LineItem, len(c.lines))
	copy(items, c.lines)
	return items
}

// Len returns the number of distinct line items.
func (c *Cart) Len() int {
	return len(c.lines)
}
