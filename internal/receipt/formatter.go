// Package receipt turns a finalized order into a printable document. The
// formatter is pure: the same order and configuration always produce the
// same document, so reprints are safe.
package receipt

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jerico-c/cashier-app/internal/domain"
)

// timestampLayout renders date and time the way the receipt printer
// expects, day first.
const timestampLayout = "02/01/2006 15.04.05"

// Config carries the business identity and formatting rules. Nothing here
// is hardcoded in the formatter itself.
type Config struct {
	StoreName   string
	AddressLine string
	Locale      string  // BCP 47 tag, e.g. "id-ID"
	Symbol      string  // currency symbol prefix, e.g. "Rp"
	TaxRate     float64 // shown on the tax row, e.g. 0.11
}

type Formatter struct {
	cfg     Config
	printer *message.Printer
}

func NewFormatter(cfg Config) (*Formatter, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
	}
	return &Formatter{cfg: cfg, printer: message.NewPrinter(tag)}, nil
}

// Format builds the receipt document for an order. It never mutates the
// order and holds no state between calls.
func (f *Formatter) Format(order *domain.Order) domain.ReceiptDocument {
	doc := domain.ReceiptDocument{
		Title:       f.cfg.StoreName,
		AddressLine: f.cfg.AddressLine,
		Timestamp:   order.CreatedAt.Format(timestampLayout),
		Footer:      "Thank you!",
	}

	for _, item := range order.Items {
		doc.Items = append(doc.Items, domain.ReceiptRow{
			Label:  fmt.Sprintf("%s (x%d)", item.Product.Name, item.Quantity),
			Amount: f.Amount(item.LineTotal()),
		})
	}

	doc.Totals = []domain.ReceiptRow{
		{Label: "Subtotal:", Amount: f.Amount(order.Subtotal)},
		{Label: fmt.Sprintf("Tax (%g%%):", taxPercent(f.cfg.TaxRate)), Amount: f.Amount(order.Tax)},
		{Label: "Discount:", Amount: "-" + f.Amount(order.Discount)},
		{Label: "Total:", Amount: f.Amount(order.Total), Bold: true},
	}

	return doc
}

// Amount renders a monetary value with the configured symbol and the
// locale's digit grouping, e.g. 72000 -> "Rp72.000" under id-ID.
func (f *Formatter) Amount(v int64) string {
	return f.cfg.Symbol + f.printer.Sprintf("%d", v)
}

// taxPercent converts a rate such as 0.11 into 11, rounded to two decimal
// places so binary float noise never leaks into the label.
func taxPercent(rate float64) float64 {
	return math.Round(rate*100*100) / 100
}
