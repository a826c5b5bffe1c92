package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

// Repository defines persistence operations for the catalog.
type Repository interface {
	List(ctx context.Context) ([]ProductWithRefs, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int64, p Product) error
	Delete(ctx context.Context, id int64) error
	ListRestock(ctx context.Context) ([]ProductWithRefs, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `p.id, p.name, p.stock, p.min_quantity, p.max_quantity,
	p.case_price, p.order_unit, p.category_id, p.supplier_id, p.active,
	p.created_at, p.updated_at, s.name, c.name`

const productJoins = `FROM products p
	JOIN suppliers s ON s.id = p.supplier_id
	LEFT JOIN categories c ON c.id = p.category_id`

func (r *repository) List(ctx context.Context) ([]ProductWithRefs, error) {
	query := `SELECT ` + productColumns + ` ` + productJoins + ` ORDER BY p.name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *repository) ListRestock(ctx context.Context) ([]ProductWithRefs, error) {
	query := `SELECT ` + productColumns + ` ` + productJoins + `
		WHERE p.active AND p.stock < p.min_quantity
		ORDER BY p.name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	query := `SELECT id, name, stock, min_quantity, max_quantity, case_price,
		order_unit, category_id, supplier_id, active, created_at, updated_at
		FROM products WHERE id = $1`
	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Stock, &p.MinQuantity, &p.MaxQuantity, &p.CasePrice,
		&p.OrderUnit, &p.CategoryID, &p.SupplierID, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, httpx.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	query := `INSERT INTO products (name, stock, min_quantity, max_quantity, case_price,
		order_unit, category_id, supplier_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query,
		p.Name, p.Stock, p.MinQuantity, p.MaxQuantity, p.CasePrice,
		p.OrderUnit, p.CategoryID, p.SupplierID, p.Active, now,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Product) error {
	query := `UPDATE products SET name = $1, stock = $2, min_quantity = $3,
		max_quantity = $4, case_price = $5, order_unit = $6, category_id = $7,
		supplier_id = $8, active = $9, updated_at = $10 WHERE id = $11`
	tag, err := r.db.Exec(ctx, query,
		p.Name, p.Stock, p.MinQuantity, p.MaxQuantity, p.CasePrice,
		p.OrderUnit, p.CategoryID, p.SupplierID, p.Active, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]ProductWithRefs, error) {
	var products []ProductWithRefs
	for rows.Next() {
		var p ProductWithRefs
		err := rows.Scan(
			&p.ID, &p.Name, &p.Stock, &p.MinQuantity, &p.MaxQuantity,
			&p.CasePrice, &p.OrderUnit, &p.CategoryID, &p.SupplierID, &p.Active,
			&p.CreatedAt, &p.UpdatedAt, &p.SupplierName, &p.CategoryName,
		)
		if err != nil {
			return nil, err
		}
		p.Status = p.Product.Status()
		products = append(products, p)
	}
	return products, rows.Err()
}
