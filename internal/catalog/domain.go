package catalog

import "time"

// StockStatus is the derived availability tri-state for a product.
type StockStatus string

const (
	StockStatusOut StockStatus = "Out of Stock"
	StockStatusLow StockStatus = "Low Stock"
	StockStatusIn  StockStatus = "In Stock"
)

// Product represents a stocked item.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Stock       int       `json:"stock"`
	MinQuantity int       `json:"min_quantity"`
	MaxQuantity int       `json:"max_quantity"`
	CasePrice   float64   `json:"case_price"`
	OrderUnit   string    `json:"order_unit"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	SupplierID  int64     `json:"supplier_id"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductWithRefs carries the product plus resolved reference names for list views.
type ProductWithRefs struct {
	Product
	SupplierName string      `json:"supplier_name"`
	CategoryName *string     `json:"category_name,omitempty"`
	Status       StockStatus `json:"status"`
}

// Status derives the tri-state stock status.
// stock <= 0 is out regardless of the minimum threshold.
func (p Product) Status() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockStatusOut
	case p.Stock < p.MinQuantity:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// NeedsRestock reports whether the product sits below its minimum threshold.
func (p Product) NeedsRestock() bool {
	return p.Stock < p.MinQuantity
}

// RestockQuantity is the default order quantity: enough to reach the minimum.
func (p Product) RestockQuantity() int {
	qty := p.MinQuantity - p.Stock
	if qty < 0 {
		return 0
	}
	return qty
}
