package customers

import (
	"context"
	"errors"
)

// ErrNotFound indicates the customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Repo defines persistence operations for customers.
type Repo interface {
	Create(ctx context.Context, customer Customer) error
	GetByID(ctx context.Context, id string) (Customer, error)
	// List returns customers ordered by updated_at descending, optionally
	// filtered by a case-insensitive name/email substring.
	List(ctx context.Context, search string) ([]Customer, error)
	Update(ctx context.Context, customer Customer) error
}
