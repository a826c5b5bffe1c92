package suppliers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

// Repository defines persistence operations for suppliers.
type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, s Supplier) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	query := `SELECT id, name, contact, email, address, created_at, updated_at
		FROM suppliers ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	query := `SELECT id, name, contact, email, address, created_at, updated_at
		FROM suppliers WHERE id = $1`
	var s Supplier
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, httpx.ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (name, contact, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, s.Name, s.Contact, s.Email, s.Address, now).Scan(&s.ID)
	if err != nil {
		return Supplier{}, mapUniqueViolation(err, s.Name)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Supplier) error {
	query := `UPDATE suppliers SET name = $1, contact = $2, email = $3, address = $4,
		updated_at = $5 WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, s.Name, s.Contact, s.Email, s.Address, time.Now().UTC(), id)
	if err != nil {
		return mapUniqueViolation(err, s.Name)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Supplier names are unique case-insensitively (unique index on lower(name)).
func mapUniqueViolation(err error, name string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: supplier %q already exists", httpx.ErrDuplicate, name)
	}
	return err
}
