// Package store is the persistence adapter for session state. It treats
// values as opaque blobs keyed by name; serialization is the caller's
// concern. Failures here are recoverable by design: callers fall back to
// defaults on read errors and log-and-ignore write errors.
package store

import (
	"context"
	"errors"
)

// Keys under which the session persists its state.
const (
	KeyCart     = "cashier:cart"
	KeyDiscount = "cashier:discount"
)

var ErrNotFound = errors.New("key not found")

// Store is an opaque key-value blob store.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
