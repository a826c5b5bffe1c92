package orders

import "time"

// CreateOrderRequest is the payload for creating an order with its lines.
// Header and lines are persisted in one transaction.
type CreateOrderRequest struct {
	SupplierID int64                    `json:"supplier_id" validate:"required,gt=0"`
	OrderDate  *time.Time               `json:"order_date,omitempty"`
	Lines      []CreateOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateOrderLineRequest is one line of an order creation payload.
type CreateOrderLineRequest struct {
	ProductID  int64   `json:"product_id" validate:"required,gt=0"`
	SupplierID int64   `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
}

// UpdateStatusRequest moves an order through its lifecycle.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing delivered"`
}
