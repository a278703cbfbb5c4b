package domain

// ReceiptRow is a single printable line of a receipt table.
type ReceiptRow struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
	Bold   bool   `json:"bold,omitempty"`
}

// ReceiptDocument is a structured, renderable representation of an Order.
// The print surface decides the medium; the core only fills in content.
type ReceiptDocument struct {
	Title       string       `json:"title"`
	AddressLine string       `json:"address_line"`
	Timestamp   string       `json:"timestamp"`
	Items       []ReceiptRow `json:"items"`
	Totals      []ReceiptRow `json:"totals"`
	Footer      string       `json:"footer"`
}
