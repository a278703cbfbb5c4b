// Package catalog is the read-only product list backing the cashier. The
// core never writes to it; products are seeded through migrations and
// administered out of band.
package catalog

import (
	"context"
	"errors"

	"github.com/jerico-c/cashier-app/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Filter narrows a catalog listing. The zero value matches everything.
type Filter struct {
	Category string // exact category, empty = all
	Query    string // case-insensitive substring of the product name
}

// Catalog defines read access to the product list.
type Catalog interface {
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Close() error
}
