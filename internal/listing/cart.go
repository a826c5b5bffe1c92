package listing

import (
	"github.com/stockpilot/stockpilot/internal/catalog"
)

// CartLine is one staged reorder entry.
type CartLine struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	SupplierID  int64   `json:"supplier_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Cart stages reorder lines keyed by product. The first add for a
// product wins; later adds for the same product are ignored.
type Cart struct {
	Items []CartLine `json:"items"`
}

// Add stages a reorder line for p. The requested quantity defaults to
// the product's restock gap (at least one case) and the unit price to
// its current case price. Returns false when p is already staged.
func (c *Cart) Add(p catalog.Product) bool {
	for _, l := range c.Items {
		if l.ProductID == p.ID {
			return false
		}
	}
	qty := p.RestockQuantity()
	if qty <= 0 {
		qty = 1
	}
	c.Items = append(c.Items, CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		SupplierID:  p.SupplierID,
		Quantity:    qty,
		UnitPrice:   p.CasePrice,
	})
	return true
}

// SetQuantity overrides the staged quantity for a product.
// Returns false when the product is not staged or qty is not positive.
func (c *Cart) SetQuantity(productID int64, qty int) bool {
	if qty <= 0 {
		return false
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return true
		}
	}
	return false
}

// Remove drops a staged line. Returns false when the product is not staged.
func (c *Cart) Remove(productID int64) bool {
	for i, l := range c.Items {
		if l.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() { c.Items = nil }

// Total is the staged amount across all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Items {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}
