package suppression

import (
	"context"

	"github.com/ignite/campaign-studio/internal/domain"
)

// Repository defines the data access contract for the suppression list.
type Repository interface {
	// IsSuppressed returns true if the email is actively suppressed.
	IsSuppressed(ctx context.Context, email string) (bool, error)

	// Suppress adds an email. Suppressing an address again reactivates the
	// existing row.
	Suppress(ctx context.Context, s *domain.Suppression) error

	// Remove deactivates an entry. Returns ErrNotFound if there is none.
	Remove(ctx context.Context, email string) error

	// List returns active entries newest first and the total count.
	List(ctx context.Context, filter ListFilter) ([]domain.Suppression, int, error)
}

// ListFilter controls pagination and filtering for suppression lists.
type ListFilter struct {
	Reason string
	Limit  int
	Offset int
}
