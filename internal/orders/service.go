package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

// CacheBumper invalidates derived report caches after order mutations.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service handles order business logic.
type Service struct {
	repo   Repository
	cache  CacheBumper
	logger *slog.Logger
}

// NewService builds a Service instance. cache may be nil.
func NewService(repo Repository, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Create persists an order and its lines atomically. Line totals and the
// order total are computed server side from quantity and unit price.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, userID int64) (Order, error) {
	if len(req.Lines) == 0 {
		return Order{}, fmt.Errorf("%w: order requires at least one line", httpx.ErrValidation)
	}

	orderDate := time.Now().UTC()
	if req.OrderDate != nil {
		orderDate = req.OrderDate.UTC()
	}

	lines := make([]OrderLine, 0, len(req.Lines))
	var total float64
	for _, lr := range req.Lines {
		supplierID := lr.SupplierID
		if supplierID == 0 {
			supplierID = req.SupplierID
		}
		lineTotal := float64(lr.Quantity) * lr.UnitPrice
		lines = append(lines, OrderLine{
			ProductID:  lr.ProductID,
			SupplierID: supplierID,
			Quantity:   lr.Quantity,
			UnitPrice:  lr.UnitPrice,
			LineTotal:  lineTotal,
		})
		total += lineTotal
	}

	order := Order{
		OrderDate:   orderDate,
		Status:      OrderStatusPending,
		TotalAmount: total,
		SupplierID:  req.SupplierID,
		UserID:      userID,
	}

	created, err := s.repo.CreateWithLines(ctx, order, lines)
	if err != nil {
		return Order{}, err
	}
	s.bump(ctx)
	return created, nil
}

// Get returns one order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, fmt.Errorf("%w: invalid order id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// ListPending returns orders that have not been delivered yet.
func (s *Service) ListPending(ctx context.Context) ([]OrderWithRefs, error) {
	return s.repo.ListPending(ctx)
}

// List returns the full order history.
func (s *Service) List(ctx context.Context) ([]OrderWithRefs, error) {
	return s.repo.List(ctx)
}

// ListLineDetails returns all order lines enriched with reference names.
func (s *Service) ListLineDetails(ctx context.Context) ([]LineDetail, error) {
	return s.repo.ListLineDetails(ctx)
}

// UpdateStatus moves an order through its lifecycle. Delivering an order
// stamps delivered_at; delivered is terminal.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status OrderStatus) (Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(current.Status, status) {
		return Order{}, fmt.Errorf("%w: cannot move order from %s to %s", httpx.ErrValidation, current.Status, status)
	}
	var deliveredAt *time.Time
	if status == OrderStatusDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, deliveredAt); err != nil {
		return Order{}, err
	}
	s.bump(ctx)
	return s.repo.Get(ctx, id)
}

// bump invalidates the report cache; stale summaries then last until
// the cache TTL, so failures are at least surfaced in the log.
func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump", slog.Any("error", err))
	}
}
