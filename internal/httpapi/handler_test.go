package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerico-c/cashier-app/internal/catalog"
	"github.com/jerico-c/cashier-app/internal/domain"
	"github.com/jerico-c/cashier-app/internal/receipt"
	"github.com/jerico-c/cashier-app/internal/session"
	"github.com/jerico-c/cashier-app/internal/store"
)

var (
	espresso = domain.Product{ID: 1, Name: "Espresso", Price: 22000, Category: "Hot Drinks"}
	latte    = domain.Product{ID: 2, Name: "Latte", Price: 28000, Category: "Hot Drinks"}
	muffin   = domain.Product{ID: 6, Name: "Muffin", Price: 20000, Category: "Pastries"}
)

type fakeCatalog struct {
	products []domain.Product
}

func (c *fakeCatalog) List(_ context.Context, f catalog.Filter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range c.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *fakeCatalog) Get(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (c *fakeCatalog) Categories(context.Context) ([]string, error) {
	return []string{"Cold Drinks", "Hot Drinks", "Pastries"}, nil
}

func (c *fakeCatalog) Close() error { return nil }

type fakePrinter struct {
	err  error
	docs []domain.ReceiptDocument
}

func (p *fakePrinter) Print(_ context.Context, doc domain.ReceiptDocument) error {
	if p.err != nil {
		return p.err
	}
	p.docs = append(p.docs, doc)
	return nil
}

func newTestServer(t *testing.T, printer Printer) *httptest.Server {
	t.Helper()

	cat := &fakeCatalog{products: []domain.Product{espresso, latte, muffin}}
	sess := session.New(session.Options{
		Store:   store.NewMemoryStore(),
		Catalog: cat,
		TaxRate: 0.11,
		Now:     func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) },
	})

	formatter, err := receipt.NewFormatter(receipt.Config{
		StoreName:   "CashierPro Lite",
		AddressLine: "Jl. Pahlawan No. 123",
		Locale:      "id-ID",
		Symbol:      "Rp",
		TaxRate:     0.11,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(sess, cat, formatter, printer, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeCart(t *testing.T, resp *http.Response) CartResponseDTO {
	t.Helper()
	defer resp.Body.Close()
	var cart CartResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	return cart
}

func TestListProducts(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("all", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/products")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var products []domain.Product
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
		assert.Len(t, products, 3)
	})

	t.Run("filtered by category and query", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/products?category=Hot+Drinks&q=lat")
		require.NoError(t, err)
		defer resp.Body.Close()

		var products []domain.Product
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
		require.Len(t, products, 1)
		assert.Equal(t, "Latte", products[0].Name)
	})
}

func TestAddItem(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cart := decodeCart(t, resp)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`)
	cart = decodeCart(t, resp)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(44000), cart.Items[0].LineTotal)
}

func TestAddItem_Validation(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":0}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":999}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `not json`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIncrementDecrement(t *testing.T) {
	srv := newTestServer(t, nil)

	doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`).Body.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items/1/increment", "")
	cart := decodeCart(t, resp)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items/1/decrement", "")
	cart = decodeCart(t, resp)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// decrementing the last unit removes the line
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items/1/decrement", "")
	cart = decodeCart(t, resp)
	assert.Empty(t, cart.Items)

	// unknown id is a silent no-op
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items/999/decrement", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestSetDiscount(t *testing.T) {
	srv := newTestServer(t, nil)

	doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`).Body.Close()

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/cart/discount", `{"amount":5000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decodeCart(t, resp)
	assert.Equal(t, int64(5000), cart.Discount)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/cart/discount", `{"amount":-1}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	// checkout with an empty cart is rejected
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/checkout", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// receipt before any order
	resp, err := http.Get(srv.URL + "/api/v1/receipt")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Espresso x2, Latte x1, discount 5000
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`).Body.Close()
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`).Body.Close()
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":2}`).Body.Close()
	doJSON(t, http.MethodPut, srv.URL+"/api/v1/cart/discount", `{"amount":5000}`).Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/checkout", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()

	assert.Equal(t, int64(72000), order.Subtotal)
	assert.Equal(t, int64(7920), order.Tax)
	assert.Equal(t, int64(74920), order.Total)

	// cart is empty and discount reset afterwards
	resp, err = http.Get(srv.URL + "/api/v1/cart")
	require.NoError(t, err)
	cart := decodeCart(t, resp)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.Discount)

	// the receipt is available, and identical on reprint
	resp, err = http.Get(srv.URL + "/api/v1/receipt")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first domain.ReceiptDocument
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/receipt")
	require.NoError(t, err)
	var second domain.ReceiptDocument
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	resp.Body.Close()

	assert.Equal(t, first, second)
	assert.Equal(t, "CashierPro Lite", first.Title)
	assert.Equal(t, "Rp74.920", first.Totals[3].Amount)
}

func TestPrintReceipt(t *testing.T) {
	t.Run("no printer configured", func(t *testing.T) {
		srv := newTestServer(t, nil)
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`).Body.Close()
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/checkout", "").Body.Close()

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/receipt/print", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("printer receives the document", func(t *testing.T) {
		printer := &fakePrinter{}
		srv := newTestServer(t, printer)
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`).Body.Close()
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/checkout", "").Body.Close()

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/receipt/print", "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		require.Len(t, printer.docs, 1)
		assert.Equal(t, "CashierPro Lite", printer.docs[0].Title)
	})

	t.Run("printer failure keeps the order valid", func(t *testing.T) {
		printer := &fakePrinter{err: errors.New("printer on fire")}
		srv := newTestServer(t, printer)
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", `{"product_id":1}`).Body.Close()
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/checkout", "").Body.Close()

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/receipt/print", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		// receipt is still retrievable after a failed print
		getResp, err := http.Get(srv.URL + "/api/v1/receipt")
		require.NoError(t, err)
		defer getResp.Body.Close()
		assert.Equal(t, http.StatusOK, getResp.StatusCode)
	})
}

func TestListOrders_HistoryDisabled(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/orders")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
