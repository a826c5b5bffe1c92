package catalog

import (
	"context"
	"fmt"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

// Service handles catalog business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every product with resolved reference names.
func (s *Service) List(ctx context.Context) ([]ProductWithRefs, error) {
	return s.repo.List(ctx)
}

// ListRestock returns active products sitting below their minimum threshold.
func (s *Service) ListRestock(ctx context.Context) ([]ProductWithRefs, error) {
	return s.repo.ListRestock(ctx)
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create inserts a new product. New products start active.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	p := Product{
		Name:        req.Name,
		Stock:       req.Stock,
		MinQuantity: req.MinQuantity,
		MaxQuantity: req.MaxQuantity,
		CasePrice:   req.CasePrice,
		OrderUnit:   req.OrderUnit,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
		Active:      true,
	}
	return s.repo.Create(ctx, p)
}

// Update replaces the stored product fields.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	current.Name = req.Name
	current.Stock = req.Stock
	current.MinQuantity = req.MinQuantity
	current.MaxQuantity = req.MaxQuantity
	current.CasePrice = req.CasePrice
	current.OrderUnit = req.OrderUnit
	current.CategoryID = req.CategoryID
	current.SupplierID = req.SupplierID
	if req.Active != nil {
		current.Active = *req.Active
	}
	if err := s.repo.Update(ctx, id, current); err != nil {
		return Product{}, err
	}
	return current, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
