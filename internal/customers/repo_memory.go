package customers

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu        sync.RWMutex
	customers map[string]Customer
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{customers: make(map[string]Customer)}
}

func (r *MemoryRepo) Create(ctx context.Context, customer Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Customer, error) {
	if err := ctx.Err(); err != nil {
		return Customer{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return customer, nil
}

func (r *MemoryRepo) List(ctx context.Context, search string) ([]Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))

	r.mu.RLock()
	out := make([]Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if search != "" && !matchesSearch(c, search) {
			continue
		}
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, customer Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return ErrNotFound
	}
	r.customers[customer.ID] = customer
	return nil
}

func matchesSearch(c Customer, search string) bool {
	if strings.Contains(strings.ToLower(c.Name), search) {
		return true
	}
	if c.Email != nil && strings.Contains(strings.ToLower(*c.Email), search) {
		return true
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
