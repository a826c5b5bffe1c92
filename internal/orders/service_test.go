package orders

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

type memoryOrderRepo struct {
	orders map[int64]Order
	nextID int64
	fail   error
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[int64]Order)}
}

func (r *memoryOrderRepo) CreateWithLines(ctx context.Context, order Order, lines []OrderLine) (Order, error) {
	if r.fail != nil {
		return Order{}, r.fail
	}
	r.nextID++
	order.ID = r.nextID
	for i := range lines {
		lines[i].OrderID = order.ID
		lines[i].ID = int64(i + 1)
	}
	order.Lines = lines
	r.orders[order.ID] = order
	return order, nil
}

func (r *memoryOrderRepo) Get(ctx context.Context, id int64) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	return o, nil
}

func (r *memoryOrderRepo) ListPending(ctx context.Context) ([]OrderWithRefs, error) {
	var out []OrderWithRefs
	for _, o := range r.orders {
		if o.Status != OrderStatusDelivered {
			out = append(out, OrderWithRefs{Order: o})
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) List(ctx context.Context) ([]OrderWithRefs, error) {
	var out []OrderWithRefs
	for _, o := range r.orders {
		out = append(out, OrderWithRefs{Order: o})
	}
	return out, nil
}

func (r *memoryOrderRepo) UpdateStatus(ctx context.Context, id int64, status OrderStatus, deliveredAt *time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	o.Status = status
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}
	r.orders[id] = o
	return nil
}

func (r *memoryOrderRepo) ListLineDetails(ctx context.Context) ([]LineDetail, error) {
	return nil, nil
}

type countingBumper struct {
	calls int
	fail  error
}

func (b *countingBumper) Bump(ctx context.Context) error {
	b.calls++
	return b.fail
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateComputesTotals(t *testing.T) {
	repo := newMemoryOrderRepo()
	bumper := &countingBumper{}
	svc := NewService(repo, bumper, discardLogger())

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		SupplierID: 3,
		Lines: []CreateOrderLineRequest{
			{ProductID: 1, Quantity: 4, UnitPrice: 2.5},
			{ProductID: 2, Quantity: 1, UnitPrice: 10},
		},
	}, 9)
	require.NoError(t, err)
	require.Equal(t, OrderStatusPending, order.Status)
	require.Equal(t, int64(9), order.UserID)
	require.Len(t, order.Lines, 2)
	require.InDelta(t, 10.0, order.Lines[0].LineTotal, 1e-9)
	require.InDelta(t, 20.0, order.TotalAmount, 1e-9)
	// Line supplier defaults to the order supplier when omitted.
	require.Equal(t, int64(3), order.Lines[0].SupplierID)
	require.Equal(t, 1, bumper.calls)
}

func TestCreateRejectsEmptyLines(t *testing.T) {
	svc := NewService(newMemoryOrderRepo(), nil, discardLogger())
	_, err := svc.Create(context.Background(), CreateOrderRequest{SupplierID: 1}, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateFailureLeavesNoOrder(t *testing.T) {
	repo := newMemoryOrderRepo()
	repo.fail = errors.New("insert line: connection reset")
	svc := NewService(repo, nil, discardLogger())
	_, err := svc.Create(context.Background(), CreateOrderRequest{
		SupplierID: 1,
		Lines:      []CreateOrderLineRequest{{ProductID: 1, Quantity: 1, UnitPrice: 1}},
	}, 1)
	require.Error(t, err)
	require.Empty(t, repo.orders)
}

func TestStatusTransitions(t *testing.T) {
	repo := newMemoryOrderRepo()
	svc := NewService(repo, nil, discardLogger())
	order, err := svc.Create(context.Background(), CreateOrderRequest{
		SupplierID: 1,
		Lines:      []CreateOrderLineRequest{{ProductID: 1, Quantity: 2, UnitPrice: 3}},
	}, 1)
	require.NoError(t, err)

	order, err = svc.UpdateStatus(context.Background(), order.ID, OrderStatusProcessing)
	require.NoError(t, err)
	require.Equal(t, OrderStatusProcessing, order.Status)
	require.Nil(t, order.DeliveredAt)

	order, err = svc.UpdateStatus(context.Background(), order.ID, OrderStatusDelivered)
	require.NoError(t, err)
	require.Equal(t, OrderStatusDelivered, order.Status)
	require.NotNil(t, order.DeliveredAt)

	// Delivered is terminal.
	_, err = svc.UpdateStatus(context.Background(), order.ID, OrderStatusPending)
	require.ErrorIs(t, err, httpx.ErrValidation)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestBumpFailureIsLoggedNotFatal(t *testing.T) {
	repo := newMemoryOrderRepo()
	bumper := &countingBumper{fail: errors.New("redis: connection refused")}
	var buf bytes.Buffer
	svc := NewService(repo, bumper, slog.New(slog.NewTextHandler(&buf, nil)))

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		SupplierID: 1,
		Lines:      []CreateOrderLineRequest{{ProductID: 1, Quantity: 1, UnitPrice: 1}},
	}, 1)
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	require.Equal(t, 1, bumper.calls)
	require.Contains(t, buf.String(), "report cache bump")
	require.Contains(t, buf.String(), "connection refused")
}

func TestPendingCanDeliverDirectly(t *testing.T) {
	require.True(t, CanTransition(OrderStatusPending, OrderStatusDelivered))
	require.True(t, CanTransition(OrderStatusPending, OrderStatusProcessing))
	require.False(t, CanTransition(OrderStatusProcessing, OrderStatusPending))
	require.False(t, CanTransition(OrderStatusDelivered, OrderStatusProcessing))
}
