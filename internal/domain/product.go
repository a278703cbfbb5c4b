package domain

// Product is a catalog entry. Prices are stored in the smallest currency
// unit (whole rupiah for IDR) to keep all arithmetic integral.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}
