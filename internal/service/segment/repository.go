package segment

import (
	"context"

	"github.com/ignite/campaign-studio/internal/domain"
)

// Repository defines the data access contract for segments and contacts.
type Repository interface {
	// Create inserts a segment and fills its id and timestamps.
	Create(ctx context.Context, s *domain.Segment) error

	// Get returns a segment with its contact count, or ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Segment, error)

	// List returns every segment with its contact count, newest first.
	List(ctx context.Context) ([]domain.Segment, error)

	// Update changes name and description. It returns ErrNotFound for an
	// unknown id.
	Update(ctx context.Context, s *domain.Segment) error

	// Delete removes a segment and its contacts. It returns ErrNotFound for
	// an unknown id.
	Delete(ctx context.Context, id int64) error

	// AddContacts inserts all contacts in one transaction and returns how
	// many were stored.
	AddContacts(ctx context.Context, segmentID int64, contacts []domain.Contact) (int, error)

	// Contacts lists a segment's contacts in insertion order.
	Contacts(ctx context.Context, segmentID int64) ([]domain.Contact, error)

	// DeleteContact removes a contact of the segment, or returns
	// ErrContactNotFound when it belongs to another segment or none.
	DeleteContact(ctx context.Context, segmentID, contactID int64) error
}
