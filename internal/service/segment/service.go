package segment

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxContactNameLen = 120
)

// Service implements segment business logic. It is safe for concurrent use.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates a segment service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, log: logger.Default().With("component", "segment_service")}
}

func validateSegment(name, description string) (string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	switch {
	case name == "":
		return "", "", ErrMissingName
	case utf8.RuneCountInString(name) > maxNameLen:
		return "", "", ErrNameTooLong
	case utf8.RuneCountInString(description) > maxDescriptionLen:
		return "", "", ErrDescTooLong
	}
	return name, description, nil
}

// Create validates and stores a new segment.
func (s *Service) Create(ctx context.Context, name, description string) (*domain.Segment, error) {
	name, description, err := validateSegment(name, description)
	if err != nil {
		return nil, err
	}
	seg := &domain.Segment{Name: name, Description: description}
	if err := s.repo.Create(ctx, seg); err != nil {
		return nil, err
	}
	s.log.Info("segment created", "segment_id", seg.ID, "name", seg.Name)
	return seg, nil
}

// Update renames a segment or changes its description.
func (s *Service) Update(ctx context.Context, id int64, name, description string) (*domain.Segment, error) {
	name, description, err := validateSegment(name, description)
	if err != nil {
		return nil, err
	}
	seg, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	seg.Name, seg.Description = name, description
	if err := s.repo.Update(ctx, seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// Get returns one segment with its contact count.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Segment, error) {
	return s.repo.Get(ctx, id)
}

// List returns all segments.
func (s *Service) List(ctx context.Context) ([]domain.Segment, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Segment{}
	}
	return out, nil
}

// Delete removes a segment together with its contacts.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("segment deleted", "segment_id", id)
	return nil
}

// AddContact validates and stores a single contact.
func (s *Service) AddContact(ctx context.Context, segmentID int64, email, name string) (*domain.Contact, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if utf8.RuneCountInString(name) > maxContactNameLen {
		return nil, ErrContactName
	}
	if _, err := s.repo.Get(ctx, segmentID); err != nil {
		return nil, err
	}
	c := domain.Contact{SegmentID: segmentID, Email: email, Name: name}
	if _, err := s.repo.AddContacts(ctx, segmentID, []domain.Contact{c}); err != nil {
		return nil, err
	}
	return &c, nil
}

// ImportContacts adds every parseable line of text to the segment. It
// returns ErrNoValidContacts when nothing could be imported.
func (s *Service) ImportContacts(ctx context.Context, segmentID int64, text string) (domain.ContactImport, error) {
	if _, err := s.repo.Get(ctx, segmentID); err != nil {
		return domain.ContactImport{}, err
	}

	contacts, skipped := ParseContacts(text)
	if len(contacts) == 0 {
		return domain.ContactImport{Skipped: skipped}, ErrNoValidContacts
	}
	for i := range contacts {
		contacts[i].SegmentID = segmentID
	}

	added, err := s.repo.AddContacts(ctx, segmentID, contacts)
	if err != nil {
		return domain.ContactImport{}, fmt.Errorf("import contacts: %w", err)
	}
	s.log.Info("contacts imported", "segment_id", segmentID, "added", added, "skipped", skipped)
	return domain.ContactImport{Added: added, Skipped: skipped}, nil
}

// Contacts lists a segment's contacts.
func (s *Service) Contacts(ctx context.Context, segmentID int64) ([]domain.Contact, error) {
	if _, err := s.repo.Get(ctx, segmentID); err != nil {
		return nil, err
	}
	out, err := s.repo.Contacts(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Contact{}
	}
	return out, nil
}

// DeleteContact removes one contact from a segment.
func (s *Service) DeleteContact(ctx context.Context, segmentID, contactID int64) error {
	return s.repo.DeleteContact(ctx, segmentID, contactID)
}
