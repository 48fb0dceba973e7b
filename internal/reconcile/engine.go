// Package reconcile implements the sync/link engine that converges Drive
// folder state and the local customer/document mirror.
package reconcile

import (
	"context"
	"errors"
	"time"

	"crm-backend/internal/classify"
	"crm-backend/internal/customers"
	"crm-backend/internal/documents"
	"crm-backend/internal/drive"
	"crm-backend/internal/shared/telemetry"
)

// ErrMissingRootFolder indicates neither the request nor the configuration
// supplied a Drive folder to sweep.
var ErrMissingRootFolder = errors.New("missing root folder id")

// DriveAPI is the slice of the Drive client the engine needs.
type DriveAPI interface {
	GetFile(ctx context.Context, token, fileID string) (drive.File, error)
	ListFolder(ctx context.Context, token, folderID, pageToken string) (drive.FileList, error)
	PatchAppProperties(ctx context.Context, token, fileID string, props map[string]string) (drive.File, error)
}

// Engine orchestrates classification, remote patching and mirror upserts.
// Both operations are idempotent: repeated runs against unchanged remote
// state converge to the same mirror content.
type Engine struct {
	Drive        DriveAPI
	Customers    customers.Repo
	Documents    documents.Repo
	RootFolderID string
}

// LinkInput names the file to link and the customer to attach it to.
// Category and Stage are optional caller overrides.
type LinkInput struct {
	CustomerID  string
	DriveFileID string
	Category    string
	Stage       string
}

// LinkFile attaches a Drive file to a customer: it patches the remote
// property map and upserts the mirror row. Effective category/stage follow
// the precedence override > existing remote property > classifier inference.
// A remote failure aborts the whole operation before any local write.
func (e *Engine) LinkFile(ctx context.Context, token string, in LinkInput) (documents.Document, drive.File, error) {
	customer, err := e.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return documents.Document{}, drive.File{}, err
	}

	file, err := e.Drive.GetFile(ctx, token, in.DriveFileID)
	if err != nil {
		return documents.Document{}, drive.File{}, err
	}

	inferred := classify.Classify(classify.File{Name: file.Name, MimeType: file.MimeType})
	category := firstNonEmpty(in.Category, file.AppProperties["category"], inferred.Category)
	stage := firstNonEmpty(in.Stage, file.AppProperties["stage"], inferred.Stage)

	next := drive.Merge(file.AppProperties, map[string]string{
		"customerId": customer.ID,
		"category":   category,
		"stage":      stage,
	})
	if _, err := e.Drive.PatchAppProperties(ctx, token, file.ID, next); err != nil {
		return documents.Document{}, drive.File{}, err
	}

	doc, err := e.Documents.Upsert(ctx, documents.Document{
		DriveFileID:       file.ID,
		CustomerID:        &customer.ID,
		PendingCustomerID: nil,
		Title:             file.Name,
		Category:          optional(category),
		Stage:             optional(stage),
		MimeType:          file.MimeType,
		DriveModifiedTime: parseModifiedTime(file.ModifiedTime),
	})
	if err != nil {
		return documents.Document{}, drive.File{}, err
	}

	file.AppProperties = next
	return doc, file, nil
}

// Summary reports the counters of one sweep. Upserted counts every processed
// file, new or already tracked, so an idempotent re-run yields the same
// numbers with Patched at zero.
type Summary struct {
	Scanned  int `json:"scanned"`
	Upserted int `json:"upserted"`
	Patched  int `json:"patched"`
}

// SyncFolder sweeps one folder's direct children and reconciles each file
// into the mirror. Classification only fills missing remote category/stage
// values, never overwrites. A patch failure for one file is logged and
// counted as not patched; the sweep continues. List-page failures abort,
// since losing a page breaks pagination continuity.
func (e *Engine) SyncFolder(ctx context.Context, token, rootFolderID string) (Summary, error) {
	root := rootFolderID
	if root == "" {
		root = e.RootFolderID
	}
	if root == "" {
		return Summary{}, ErrMissingRootFolder
	}

	var summary Summary
	pageToken := ""
	for {
		page, err := e.Drive.ListFolder(ctx, token, root, pageToken)
		if err != nil {
			return summary, err
		}

		for _, file := range page.Files {
			summary.Scanned++
			patched, err := e.syncFile(ctx, token, file)
			if err != nil {
				return summary, err
			}
			if patched {
				summary.Patched++
			}
			summary.Upserted++
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	telemetry.Info("sync.complete", map[string]any{
		"root_folder_id": root,
		"scanned":        summary.Scanned,
		"upserted":       summary.Upserted,
		"patched":        summary.Patched,
	})
	return summary, nil
}

func (e *Engine) syncFile(ctx context.Context, token string, file drive.File) (bool, error) {
	inferred := classify.Classify(classify.File{Name: file.Name, MimeType: file.MimeType})

	next := drive.Merge(file.AppProperties, nil)
	shouldPatch := false
	if next["category"] == "" && inferred.Category != "" {
		next["category"] = inferred.Category
		shouldPatch = true
	}
	if next["stage"] == "" && inferred.Stage != "" {
		next["stage"] = inferred.Stage
		shouldPatch = true
	}

	patched := false
	if shouldPatch {
		if _, err := e.Drive.PatchAppProperties(ctx, token, file.ID, next); err != nil {
			// One file's patch failure must not sink the sweep.
			telemetry.Warn("sync.patch_failed", map[string]any{
				"file_id": file.ID,
				"status":  drive.StatusOf(err),
				"error":   err.Error(),
			})
		} else {
			patched = true
		}
	}

	var customerID, pendingID *string
	if remoteRef := next["customerId"]; remoteRef != "" {
		customer, err := e.Customers.GetByID(ctx, remoteRef)
		switch {
		case err == nil:
			customerID = &customer.ID
		case errors.Is(err, customers.ErrNotFound):
			pendingID = &remoteRef
		default:
			return patched, err
		}
	}

	_, err := e.Documents.Upsert(ctx, documents.Document{
		DriveFileID:       file.ID,
		CustomerID:        customerID,
		PendingCustomerID: pendingID,
		Title:             file.Name,
		Category:          optional(next["category"]),
		Stage:             optional(next["stage"]),
		MimeType:          file.MimeType,
		DriveModifiedTime: parseModifiedTime(file.ModifiedTime),
	})
	return patched, err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func parseModifiedTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
