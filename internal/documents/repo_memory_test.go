package documents

import (
	"context"
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestUpsertInsertsThenUpdates(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	first, err := repo.Upsert(ctx, Document{
		DriveFileID: "f-1",
		Title:       "contract.pdf",
		MimeType:    "application/pdf",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated id")
	}

	second, err := repo.Upsert(ctx, Document{
		DriveFileID: "f-1",
		CustomerID:  strPtr("c-1"),
		Title:       "contract-v2.pdf",
		MimeType:    "application/pdf",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected stable row id, got %s and %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected CreatedAt preserved")
	}
	if second.Title != "contract-v2.pdf" {
		t.Fatalf("expected title updated, got %s", second.Title)
	}
	if second.CustomerID == nil || *second.CustomerID != "c-1" {
		t.Fatalf("expected customer set, got %v", second.CustomerID)
	}

	docs, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one row, got %d", len(docs))
	}
}

func TestGetByDriveFileIDNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	_, err := repo.GetByDriveFileID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := []Document{
		{DriveFileID: "f-1", Title: "Contrato Acme.pdf", Category: strPtr("contract"), Stage: strPtr("Closed"), CustomerID: strPtr("c-1"), MimeType: "application/pdf", DriveModifiedTime: timePtr(base)},
		{DriveFileID: "f-2", Title: "Proposta Globex.pdf", Category: strPtr("proposal"), Stage: strPtr("Proposal"), CustomerID: strPtr("c-2"), MimeType: "application/pdf", DriveModifiedTime: timePtr(base.Add(2 * time.Hour))},
		{DriveFileID: "f-3", Title: "foto.png", Category: strPtr("image"), MimeType: "image/png", DriveModifiedTime: timePtr(base.Add(time.Hour))},
	}
	for _, doc := range seed {
		if _, err := repo.Upsert(ctx, doc); err != nil {
			t.Fatalf("seed %s: %v", doc.DriveFileID, err)
		}
	}

	docs, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(docs))
	}
	// Newest effective time first.
	if docs[0].DriveFileID != "f-2" || docs[1].DriveFileID != "f-3" || docs[2].DriveFileID != "f-1" {
		t.Fatalf("unexpected order: %s %s %s", docs[0].DriveFileID, docs[1].DriveFileID, docs[2].DriveFileID)
	}

	docs, _ = repo.List(ctx, Filter{Search: "contrato"})
	if len(docs) != 1 || docs[0].DriveFileID != "f-1" {
		t.Fatalf("unexpected search result: %+v", docs)
	}

	docs, _ = repo.List(ctx, Filter{Category: "proposal"})
	if len(docs) != 1 || docs[0].DriveFileID != "f-2" {
		t.Fatalf("unexpected category result: %+v", docs)
	}

	docs, _ = repo.List(ctx, Filter{CustomerID: "c-1"})
	if len(docs) != 1 || docs[0].DriveFileID != "f-1" {
		t.Fatalf("unexpected customer result: %+v", docs)
	}

	from := base.Add(30 * time.Minute)
	docs, _ = repo.List(ctx, Filter{DateFrom: &from})
	if len(docs) != 2 {
		t.Fatalf("expected 2 rows after dateFrom, got %d", len(docs))
	}

	docs, _ = repo.List(ctx, Filter{Limit: 2})
	if len(docs) != 2 {
		t.Fatalf("expected limit applied, got %d", len(docs))
	}
}

func TestCountByCustomer(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	for _, doc := range []Document{
		{DriveFileID: "f-1", CustomerID: strPtr("c-1"), Title: "a", MimeType: "application/pdf"},
		{DriveFileID: "f-2", CustomerID: strPtr("c-1"), Title: "b", MimeType: "application/pdf"},
		{DriveFileID: "f-3", Title: "unlinked", MimeType: "application/pdf"},
	} {
		if _, err := repo.Upsert(ctx, doc); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	counts, err := repo.CountByCustomer(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["c-1"] != 2 {
		t.Fatalf("expected 2 for c-1, got %d", counts["c-1"])
	}
	if _, ok := counts[""]; ok {
		t.Fatalf("unlinked documents must not be counted")
	}
}

func TestEffectiveTimeFallsBackToUpdatedAt(t *testing.T) {
	updated := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := Document{UpdatedAt: updated}
	if !doc.EffectiveTime().Equal(updated) {
		t.Fatalf("expected fallback to UpdatedAt")
	}
	modified := updated.Add(time.Hour)
	doc.DriveModifiedTime = &modified
	if !doc.EffectiveTime().Equal(modified) {
		t.Fatalf("expected drive_modified_time to win")
	}
}
