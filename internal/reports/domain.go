package reports

import "time"

// TopProduct is one row of a ranked product list. Count is the number of
// line-item occurrences, not the summed quantity.
type TopProduct struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Quantity  int     `json:"quantity"`
	Value     float64 `json:"value"`
}

// ValuationItem estimates the worth of one product's current stock using
// the unit price of its most recent delivered purchase.
type ValuationItem struct {
	ProductID  int64   `json:"product_id"`
	Name       string  `json:"name"`
	Stock      int     `json:"stock"`
	LatestCost float64 `json:"latest_cost"`
	Value      float64 `json:"value"`
}

// Summary aggregates all report datasets computed from delivered orders.
type Summary struct {
	TopByFrequency []TopProduct    `json:"top_by_frequency"`
	TopByQuantity  []TopProduct    `json:"top_by_quantity"`
	TopByValue     []TopProduct    `json:"top_by_value"`
	Valuation      []ValuationItem `json:"valuation"`
	TotalValue     float64         `json:"total_value"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// DeliveredLine is an order line whose parent order has been delivered.
type DeliveredLine struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   float64
	DeliveredAt time.Time
}

// StockedProduct is an active product with positive stock, the valuation input.
type StockedProduct struct {
	ID    int64
	Name  string
	Stock int
}

// MonthLine is an order line scoped to a calendar month by its parent
// order date, regardless of delivery status.
type MonthLine struct {
	ProductID   int64
	ProductName string
}
