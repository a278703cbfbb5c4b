// Package httpapi exposes the cashier session over HTTP for the terminal
// frontend. Input validation lives here, at the boundary; the session and
// pricing core assume validated input.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/jerico-c/cashier-app/internal/cart"
	"github.com/jerico-c/cashier-app/internal/catalog"
	"github.com/jerico-c/cashier-app/internal/domain"
	"github.com/jerico-c/cashier-app/internal/receipt"
	"github.com/jerico-c/cashier-app/internal/session"
)

// Printer is the receipt sink; see internal/printer for the real one.
type Printer interface {
	Print(ctx context.Context, doc domain.ReceiptDocument) error
}

// OrderHistory lists previously archived orders.
type OrderHistory interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

type Handler struct {
	session   *session.Session
	catalog   catalog.Catalog
	formatter *receipt.Formatter
	printer   Printer      // nil when no printer configured
	history   OrderHistory // nil when the archive is disabled
}

func NewHandler(s *session.Session, c catalog.Catalog, f *receipt.Formatter, p Printer, h OrderHistory) *Handler {
	return &Handler{session: s, catalog: c, formatter: f, printer: p, history: h}
}

// Router builds the chi router with all cashier routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/categories", h.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Post("/items/{product_id}/increment", h.IncrementItem)
			r.Post("/items/{product_id}/decrement", h.DecrementItem)
			r.Put("/discount", h.SetDiscount)
		})

		r.Post("/checkout", h.Checkout)

		r.Route("/receipt", func(r chi.Router) {
			r.Get("/", h.GetReceipt)
			r.Post("/print", h.PrintReceipt)
		})

		r.Get("/orders", h.ListOrders)
	})

	return r
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type DiscountRequestDTO struct {
	Amount int64 `json:"amount"`
}

type CartItemDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type CartResponseDTO struct {
	Items    []CartItemDTO `json:"items"`
	Subtotal int64         `json:"subtotal"`
	Tax      int64         `json:"tax"`
	Discount int64         `json:"discount"`
	Total    int64         `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f := catalog.Filter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	}

	products, err := h.catalog.List(r.Context(), f)
	if err != nil {
		log.WithError(err).Error("failed to list products")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list categories")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	if err := h.session.Add(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		log.WithError(err).Error("failed to add item")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, h.cartView())
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, cart.Increment)
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, cart.Decrement)
}

func (h *Handler) changeQuantity(w http.ResponseWriter, r *http.Request, delta int) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	// unknown ids are a silent no-op in the session, by contract
	h.session.ChangeQuantity(r.Context(), productID, delta)

	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "invalid_discount", "discount must not be negative")
		return
	}

	h.session.SetDiscount(r.Context(), req.Amount)

	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.session.Checkout(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cannot checkout an empty cart")
			return
		}
		log.WithError(err).Error("checkout failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	order, err := h.session.LastOrder()
	if err != nil {
		respondError(w, http.StatusNotFound, "no_order", "no order has been finalized yet")
		return
	}

	respondJSON(w, http.StatusOK, h.formatter.Format(order))
}

func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request) {
	order, err := h.session.LastOrder()
	if err != nil {
		respondError(w, http.StatusNotFound, "no_order", "no order has been finalized yet")
		return
	}

	if h.printer == nil {
		respondError(w, http.StatusServiceUnavailable, "printer_unavailable", "no printer configured")
		return
	}

	doc := h.formatter.Format(order)
	if err := h.printer.Print(r.Context(), doc); err != nil {
		log.WithError(err).Warn("failed to print receipt")
		respondError(w, http.StatusBadGateway, "printer_error", "failed to print receipt")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "printed"})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "history_unavailable", "order history is not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	orders, err := h.history.ListRecent(r.Context(), limit)
	if err != nil {
		log.WithError(err).Error("failed to list orders")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) cartView() CartResponseDTO {
	items, result := h.session.View()

	resp := CartResponseDTO{
		Items:    make([]CartItemDTO, 0, len(items)),
		Subtotal: result.Subtotal,
		Tax:      result.Tax,
		Discount: result.Discount,
		Total:    result.Total,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, CartItemDTO{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return resp
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
