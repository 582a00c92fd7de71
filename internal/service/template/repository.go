package template

import (
	"context"

	"github.com/ignite/campaign-studio/internal/domain"
)

// Repository defines the data access contract for templates.
type Repository interface {
	// Create inserts t and fills in its ID and timestamps.
	Create(ctx context.Context, t *domain.Template) error

	// Get returns a template or ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Template, error)

	// SetArchiveKey records where the template was archived.
	SetArchiveKey(ctx context.Context, id int64, key string) error
}

// Archiver stores a copy of a saved template and returns its object key.
type Archiver interface {
	Archive(ctx context.Context, t domain.Template) (string, error)
}
