package documents

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, drive_file_id, customer_id, pending_customer_id, title, category, stage, mime_type, drive_modified_time, created_at, updated_at`

// Upsert relies on the drive_file_id uniqueness constraint: a conflicting
// insert turns into an update of every mutable field.
func (r *PGRepo) Upsert(ctx context.Context, doc Document) (Document, error) {
	const query = `
INSERT INTO documents (id, drive_file_id, customer_id, pending_customer_id, title, category, stage, mime_type, drive_modified_time, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (drive_file_id) DO UPDATE SET
  customer_id = EXCLUDED.customer_id,
  pending_customer_id = EXCLUDED.pending_customer_id,
  title = EXCLUDED.title,
  category = EXCLUDED.category,
  stage = EXCLUDED.stage,
  mime_type = EXCLUDED.mime_type,
  drive_modified_time = EXCLUDED.drive_modified_time,
  updated_at = EXCLUDED.updated_at
RETURNING ` + documentColumns

	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	row := r.DB.QueryRowContext(
		ctx,
		query,
		doc.ID,
		doc.DriveFileID,
		doc.CustomerID,
		doc.PendingCustomerID,
		doc.Title,
		doc.Category,
		doc.Stage,
		doc.MimeType,
		doc.DriveModifiedTime,
		now,
		now,
	)
	return scanDocument(row)
}

func (r *PGRepo) GetByDriveFileID(ctx context.Context, driveFileID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE drive_file_id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, driveFileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Document, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		where = append(where, "lower(title) LIKE "+arg("%"+strings.ToLower(filter.Search)+"%"))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.Stage != "" {
		where = append(where, "stage = "+arg(filter.Stage))
	}
	if filter.CustomerID != "" {
		where = append(where, "customer_id = "+arg(filter.CustomerID))
	}
	if filter.DateFrom != nil {
		where = append(where, "coalesce(drive_modified_time, updated_at) >= "+arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		where = append(where, "coalesce(drive_modified_time, updated_at) <= "+arg(*filter.DateTo))
	}

	query := `
SELECT ` + documentColumns + `
FROM documents`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY coalesce(drive_modified_time, updated_at) DESC"
	if filter.Limit > 0 {
		query += "\nLIMIT " + arg(filter.Limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByCustomer(ctx context.Context) (map[string]int64, error) {
	const query = `
SELECT customer_id, count(*)
FROM documents
WHERE customer_id IS NOT NULL
GROUP BY customer_id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID,
		&doc.DriveFileID,
		&doc.CustomerID,
		&doc.PendingCustomerID,
		&doc.Title,
		&doc.Category,
		&doc.Stage,
		&doc.MimeType,
		&doc.DriveModifiedTime,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	return doc, err
}

var _ Repo = (*PGRepo)(nil)
