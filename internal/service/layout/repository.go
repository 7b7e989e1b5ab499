package layout

import (
	"context"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/domain"
)

// Repository defines the data access contract for layouts.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single layout. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Layout, error)

	// List returns all layouts ordered by updated_at DESC.
	List(ctx context.Context) ([]domain.Layout, error)

	// Create inserts a new layout and returns its ID.
	Create(ctx context.Context, l *domain.Layout) (string, error)

	// Update modifies a layout. Only non-nil fields in the update are applied.
	Update(ctx context.Context, id string, u UpdateFields) error

	// Delete removes a layout.
	Delete(ctx context.Context, id string) error
}

// UpdateFields holds the mutable fields for a layout update.
// Nil fields are not applied.
type UpdateFields struct {
	Title   *string
	Content *string
	Meta    map[string]string
}
