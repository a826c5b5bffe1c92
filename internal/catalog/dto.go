package catalog

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Stock       int     `json:"stock" validate:"gte=0"`
	MinQuantity int     `json:"min_quantity" validate:"gte=0"`
	MaxQuantity int     `json:"max_quantity" validate:"gte=0,gtefield=MinQuantity"`
	CasePrice   float64 `json:"case_price" validate:"gte=0"`
	OrderUnit   string  `json:"order_unit" validate:"required,max=20"`
	CategoryID  *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	SupplierID  int64   `json:"supplier_id" validate:"required,gt=0"`
}

// UpdateProductRequest is the payload for updating a product.
type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Stock       int     `json:"stock" validate:"gte=0"`
	MinQuantity int     `json:"min_quantity" validate:"gte=0"`
	MaxQuantity int     `json:"max_quantity" validate:"gte=0,gtefield=MinQuantity"`
	CasePrice   float64 `json:"case_price" validate:"gte=0"`
	OrderUnit   string  `json:"order_unit" validate:"required,max=20"`
	CategoryID  *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	SupplierID  int64   `json:"supplier_id" validate:"required,gt=0"`
	Active      *bool   `json:"active,omitempty"`
}
