package orders

import "time"

// OrderStatus enumerates purchase order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Order models a purchase order header.
type Order struct {
	ID          int64       `json:"id"`
	OrderDate   time.Time   `json:"order_date"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	SupplierID  int64       `json:"supplier_id"`
	UserID      int64       `json:"user_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Lines       []OrderLine `json:"lines,omitempty"`
}

// OrderLine models one product entry within an order.
type OrderLine struct {
	ID               int64      `json:"id"`
	OrderID          int64      `json:"order_id"`
	ProductID        int64      `json:"product_id"`
	SupplierID       int64      `json:"supplier_id"`
	Quantity         int        `json:"quantity"`
	UnitPrice        float64    `json:"unit_price"`
	LineTotal        float64    `json:"line_total"`
	ReceivedQuantity *int       `json:"received_quantity,omitempty"`
	ReceivedAt       *time.Time `json:"received_at,omitempty"`
}

// OrderWithRefs is an order header with resolved reference names for list views.
type OrderWithRefs struct {
	Order
	SupplierName string `json:"supplier_name"`
	Username     string `json:"username"`
}

// LineDetail is an order line enriched with product and supplier names
// plus its parent order's state.
type LineDetail struct {
	OrderLine
	ProductName  string      `json:"product_name"`
	SupplierName string      `json:"supplier_name"`
	OrderStatus  OrderStatus `json:"order_status"`
	OrderDate    time.Time   `json:"order_date"`
	DeliveredAt  *time.Time  `json:"delivered_at,omitempty"`
}

// CanTransition reports whether a status change is legal.
// pending may move forward; delivered is terminal.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusDelivered
	case OrderStatusProcessing:
		return to == OrderStatusDelivered
	default:
		return false
	}
}
