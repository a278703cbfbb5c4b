// Package session owns the state of one cashier terminal: the in-progress
// cart, the applied discount and the last finalized order. All mutations go
// through the session so the finalize-then-clear sequence stays atomic even
// with a concurrent HTTP transport in front of it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jerico-c/cashier-app/internal/cart"
	"github.com/jerico-c/cashier-app/internal/catalog"
	"github.com/jerico-c/cashier-app/internal/domain"
	"github.com/jerico-c/cashier-app/internal/pricing"
	"github.com/jerico-c/cashier-app/internal/store"
)

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	ErrNoOrder   = errors.New("no order has been finalized yet")
)

// Archiver records finalized orders in durable history. Failures are
// tolerated; the order itself lives in the session regardless.
type Archiver interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
}

// Publisher announces finalized orders to downstream consumers.
type Publisher interface {
	PublishOrderFinalized(ctx context.Context, order *domain.Order) error
}

// Options wires the session's collaborators. Archiver and Publisher are
// optional; Store and Catalog are not.
type Options struct {
	Store     store.Store
	Catalog   catalog.Catalog
	Archiver  Archiver
	Publisher Publisher
	TaxRate   float64
	Now       func() time.Time
}

type Session struct {
	mu        sync.Mutex
	cart      *cart.Cart
	discount  int64
	lastOrder *domain.Order

	store     store.Store
	catalog   catalog.Catalog
	archiver  Archiver
	publisher Publisher
	taxRate   float64
	now       func() time.Time
}

func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		cart:      cart.New(),
		store:     opts.Store,
		catalog:   opts.Catalog,
		archiver:  opts.Archiver,
		publisher: opts.Publisher,
		taxRate:   opts.TaxRate,
		now:       opts.Now,
	}
}

// Restore loads persisted cart and discount from the store. Missing or
// corrupt blobs fall back to an empty cart and zero discount; a restore can
// never fail the session. Stored lines are re-hydrated from the catalog by
// product id so prices and names are always current; unknown ids are
// dropped.
func (s *Session) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, err := s.store.Load(ctx, store.KeyCart); err == nil {
		var stored []domain.StoredLineItem
		if err := json.Unmarshal(data, &stored); err != nil {
			log.WithError(err).Warn("persisted cart is corrupt, starting empty")
		} else {
			s.cart = cart.Restore(s.rehydrate(ctx, stored))
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.WithError(err).Warn("failed to load persisted cart, starting empty")
	}

	if data, err := s.store.Load(ctx, store.KeyDiscount); err == nil {
		amount, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil || amount < 0 {
			log.WithField("blob", string(data)).Warn("persisted discount is invalid, resetting to zero")
		} else {
			s.discount = amount
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.WithError(err).Warn("failed to load persisted discount, resetting to zero")
	}
}

func (s *Session) rehydrate(ctx context.Context, stored []domain.StoredLineItem) []domain.LineItem {
	var lines []domain.LineItem
	for _, item := range stored {
		product, err := s.catalog.Get(ctx, item.ProductID)
		if err != nil {
			log.WithField("product_id", item.ProductID).Warn("dropping persisted line for unknown product")
			continue
		}
		lines = append(lines, domain.LineItem{Product: *product, Quantity: item.Quantity})
	}
	return lines
}

// Add puts one unit of the product in the cart.
func (s *Session) Add(ctx context.Context, productID int64) error {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart.Add(*product)
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// ChangeQuantity applies a +1/-1 delta to the line for productID. An
// unknown id is silently ignored; it cannot happen through the normal UI
// flow and must not break the session when it does.
func (s *Session) ChangeQuantity(ctx context.Context, productID int64, delta int) {
	s.mu.Lock()
	s.cart.ChangeQuantity(productID, delta)
	s.mu.Unlock()

	s.persist(ctx)
}

// SetDiscount applies a flat discount amount. Negative input is clamped to
// zero; the transport layer rejects it before it gets here.
func (s *Session) SetDiscount(ctx context.Context, amount int64) {
	if amount < 0 {
		amount = 0
	}

	s.mu.Lock()
	s.discount = amount
	s.mu.Unlock()

	s.persist(ctx)
}

// View returns the current line items and the price breakdown computed
// from them. The breakdown is derived on every call, never cached.
func (s *Session) View() ([]domain.LineItem, domain.PricingResult) {
	s.mu.Lock()
	items := s.cart.Items()
	discount := s.discount
	s.mu.Unlock()

	return items, pricing.Compute(items, discount, s.taxRate)
}

// Checkout finalizes the current cart into an immutable order: it snapshots
// the line items and pricing, stamps the current time, records the order as
// the session's last order, then clears the cart and resets the discount.
// The whole sequence happens under one lock hold, so no caller can observe
// a cleared cart without the order in place. An empty cart returns
// ErrEmptyCart and leaves all state untouched.
func (s *Session) Checkout(ctx context.Context) (*domain.Order, error) {
	s.mu.Lock()
	if s.cart.Len() == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}

	items := s.cart.Items()
	result := pricing.Compute(items, s.discount, s.taxRate)
	order := &domain.Order{
		ID:        uuid.New(),
		Items:     items,
		Subtotal:  result.Subtotal,
		Tax:       result.Tax,
		Discount:  result.Discount,
		Total:     result.Total,
		CreatedAt: s.now(),
	}

	s.lastOrder = order
	s.cart.Clear()
	s.discount = 0
	s.mu.Unlock()

	s.persist(ctx)

	if s.archiver != nil {
		if err := s.archiver.SaveOrder(ctx, order); err != nil {
			log.WithError(err).WithField("order_id", order.ID).Warn("failed to archive order")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderFinalized(ctx, order); err != nil {
			log.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
		}
	}

	return order, nil
}

// LastOrder returns the most recently finalized order, or ErrNoOrder when
// nothing has been finalized in this session.
func (s *Session) LastOrder() (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastOrder == nil {
		return nil, ErrNoOrder
	}
	return s.lastOrder, nil
}

// persist saves cart and discount to the store. Best effort: a failing
// store is logged and ignored, it must never block the cashier.
func (s *Session) persist(ctx context.Context) {
	s.mu.Lock()
	items := s.cart.Items()
	discount := s.discount
	s.mu.Unlock()

	stored := make([]domain.StoredLineItem, 0, len(items))
	for _, item := range items {
		stored = append(stored, domain.StoredLineItem{ProductID: item.Product.ID, Quantity: item.Quantity})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		log.WithError(err).Warn("failed to marshal cart for persistence")
		return
	}
	if err := s.store.Save(ctx, store.KeyCart, data); err != nil {
		log.WithError(err).Warn("failed to persist cart")
	}
	if err := s.store.Save(ctx, store.KeyDiscount, []byte(strconv.FormatInt(discount, 10))); err != nil {
		log.WithError(err).Warn("failed to persist discount")
	}
}
