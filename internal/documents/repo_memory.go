package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo keyed by drive_file_id.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document // driveFileID -> document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.docs[doc.DriveFileID]
	if ok {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	} else {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	r.docs[doc.DriveFileID] = doc
	return doc, nil
}

func (r *MemoryRepo) GetByDriveFileID(ctx context.Context, driveFileID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[driveFileID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]Document, 0, len(r.docs))
	for _, doc := range r.docs {
		if matchesFilter(doc, filter) {
			out = append(out, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].EffectiveTime().After(out[j].EffectiveTime())
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepo) CountByCustomer(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int64)
	for _, doc := range r.docs {
		if doc.CustomerID != nil {
			counts[*doc.CustomerID]++
		}
	}
	return counts, nil
}

func matchesFilter(doc Document, filter Filter) bool {
	if filter.Search != "" && !strings.Contains(strings.ToLower(doc.Title), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.Category != "" && (doc.Category == nil || *doc.Category != filter.Category) {
		return false
	}
	if filter.Stage != "" && (doc.Stage == nil || *doc.Stage != filter.Stage) {
		return false
	}
	if filter.CustomerID != "" && (doc.CustomerID == nil || *doc.CustomerID != filter.CustomerID) {
		return false
	}
	effective := doc.EffectiveTime()
	if filter.DateFrom != nil && effective.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && effective.After(*filter.DateTo) {
		return false
	}
	return true
}

var _ Repo = (*MemoryRepo)(nil)
