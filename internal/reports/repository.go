package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the read-only queries feeding the aggregator.
type Repository interface {
	DeliveredLines(ctx context.Context) ([]DeliveredLine, error)
	StockedProducts(ctx context.Context) ([]StockedProduct, error)
	LinesInRange(ctx context.Context, from, to time.Time) ([]MonthLine, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) DeliveredLines(ctx context.Context) ([]DeliveredLine, error) {
	query := `
		SELECT d.product_id, p.name, d.quantity, d.unit_price, o.delivered_at
		FROM order_detail d
		JOIN orders o ON o.id = d.order_id
		JOIN products p ON p.id = d.product_id
		WHERE o.status = 'delivered'
		ORDER BY d.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []DeliveredLine
	for rows.Next() {
		var l DeliveredLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.DeliveredAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) StockedProducts(ctx context.Context) ([]StockedProduct, error) {
	query := `SELECT id, name, stock FROM products WHERE active AND stock > 0 ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []StockedProduct
	for rows.Next() {
		var p StockedProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) LinesInRange(ctx context.Context, from, to time.Time) ([]MonthLine, error) {
	query := `
		SELECT d.product_id, p.name
		FROM order_detail d
		JOIN orders o ON o.id = d.order_id
		JOIN products p ON p.id = d.product_id
		WHERE o.order_date >= $1 AND o.order_date < $2
		ORDER BY d.id`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []MonthLine
	for rows.Next() {
		var l MonthLine
		if err := rows.Scan(&l.ProductID, &l.ProductName); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
