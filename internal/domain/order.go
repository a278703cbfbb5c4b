package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is an immutable snapshot of a completed payment: the line items as
// they were at checkout time plus the price breakdown and timestamp. It is
// never mutated after creation.
type Order struct {
	ID        uuid.UUID  `json:"id"`
	Items     []LineItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	Tax       int64      `json:"tax"`
	Discount  int64      `json:"discount"`
	Total     int64      `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
}
