package customers

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, customer Customer) error {
	const query = `
INSERT INTO customers (id, name, email, phone, status, drive_folder_id, sheet_file_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		string(customer.Status),
		customer.DriveFolderID,
		customer.SheetFileID,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Customer, error) {
	const query = `
SELECT id, name, email, phone, status, drive_folder_id, sheet_file_id, created_at, updated_at
FROM customers
WHERE id = $1
LIMIT 1`
	var customer Customer
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Status,
		&customer.DriveFolderID,
		&customer.SheetFileID,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return customer, nil
}

func (r *PGRepo) List(ctx context.Context, search string) ([]Customer, error) {
	query := `
SELECT id, name, email, phone, status, drive_folder_id, sheet_file_id, created_at, updated_at
FROM customers`
	var args []any
	if search != "" {
		query += `
WHERE lower(name) LIKE $1 OR lower(coalesce(email, '')) LIKE $1`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += `
ORDER BY updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var customer Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.Status,
			&customer.DriveFolderID,
			&customer.SheetFileID,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, customer)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, customer Customer) error {
	const query = `
UPDATE customers
SET name = $1, email = $2, phone = $3, status = $4, updated_at = $5
WHERE id = $6`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.Phone,
		string(customer.Status),
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
