package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpilot/stockpilot/internal/platform/db"
	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

// Repository defines persistence operations for orders.
type Repository interface {
	CreateWithLines(ctx context.Context, order Order, lines []OrderLine) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	ListPending(ctx context.Context) ([]OrderWithRefs, error)
	List(ctx context.Context) ([]OrderWithRefs, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus, deliveredAt *time.Time) error
	ListLineDetails(ctx context.Context) ([]LineDetail, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// CreateWithLines inserts the order header and all its lines in one
// transaction so a failed line insert can never leave a dangling order.
func (r *repository) CreateWithLines(ctx context.Context, order Order, lines []OrderLine) (Order, error) {
	now := time.Now().UTC()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (order_date, status, total_amount, supplier_id, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
			order.OrderDate, order.Status, order.TotalAmount, order.SupplierID, order.UserID, now,
		).Scan(&order.ID)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO order_detail (order_id, product_id, supplier_id, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
				lines[i].OrderID, lines[i].ProductID, lines[i].SupplierID,
				lines[i].Quantity, lines[i].UnitPrice, lines[i].LineTotal,
			).Scan(&lines[i].ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Lines = lines
	return order, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_date, delivered_at, status, total_amount, supplier_id, user_id, created_at, updated_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.OrderDate, &o.DeliveredAt, &o.Status, &o.TotalAmount, &o.SupplierID, &o.UserID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, httpx.ErrNotFound
		}
		return Order{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, supplier_id, quantity, unit_price, line_total, received_quantity, received_at
		FROM order_detail WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l OrderLine
		err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.SupplierID, &l.Quantity, &l.UnitPrice, &l.LineTotal, &l.ReceivedQuantity, &l.ReceivedAt)
		if err != nil {
			return Order{}, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *repository) ListPending(ctx context.Context) ([]OrderWithRefs, error) {
	return r.list(ctx, `WHERE o.status <> 'delivered'`)
}

func (r *repository) List(ctx context.Context) ([]OrderWithRefs, error) {
	return r.list(ctx, "")
}

func (r *repository) list(ctx context.Context, where string) ([]OrderWithRefs, error) {
	query := `
		SELECT o.id, o.order_date, o.delivered_at, o.status, o.total_amount,
		       o.supplier_id, o.user_id, o.created_at, o.updated_at,
		       s.name, u.username
		FROM orders o
		JOIN suppliers s ON s.id = o.supplier_id
		JOIN users u ON u.id = o.user_id
		` + where + `
		ORDER BY o.order_date DESC, o.id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []OrderWithRefs
	for rows.Next() {
		var o OrderWithRefs
		err := rows.Scan(&o.ID, &o.OrderDate, &o.DeliveredAt, &o.Status, &o.TotalAmount,
			&o.SupplierID, &o.UserID, &o.CreatedAt, &o.UpdatedAt,
			&o.SupplierName, &o.Username)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status OrderStatus, deliveredAt *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $1, delivered_at = COALESCE($2, delivered_at), updated_at = $3
		WHERE id = $4`,
		status, deliveredAt, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) ListLineDetails(ctx context.Context) ([]LineDetail, error) {
	query := `
		SELECT d.id, d.order_id, d.product_id, d.supplier_id, d.quantity, d.unit_price,
		       d.line_total, d.received_quantity, d.received_at,
		       p.name, s.name, o.status, o.order_date, o.delivered_at
		FROM order_detail d
		JOIN orders o ON o.id = d.order_id
		JOIN products p ON p.id = d.product_id
		JOIN suppliers s ON s.id = d.supplier_id
		ORDER BY o.order_date DESC, d.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []LineDetail
	for rows.Next() {
		var d LineDetail
		err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.SupplierID, &d.Quantity, &d.UnitPrice,
			&d.LineTotal, &d.ReceivedQuantity, &d.ReceivedAt,
			&d.ProductName, &d.SupplierName, &d.OrderStatus, &d.OrderDate, &d.DeliveredAt)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
