package documents

import (
	"context"
	"errors"
)

// ErrNotFound indicates the document does not exist.
var ErrNotFound = errors.New("document not found")

// Repo defines persistence operations for documents.
type Repo interface {
	// Upsert inserts the document if its DriveFileID is unseen, otherwise
	// updates all mutable fields of the existing row. The stored document
	// is returned; CreatedAt of an existing row is preserved.
	Upsert(ctx context.Context, doc Document) (Document, error)
	GetByDriveFileID(ctx context.Context, driveFileID string) (Document, error)
	// List returns documents matching filter, ordered by
	// coalesce(drive_modified_time, updated_at) descending.
	List(ctx context.Context, filter Filter) ([]Document, error)
	CountByCustomer(ctx context.Context) (map[string]int64, error)
}
