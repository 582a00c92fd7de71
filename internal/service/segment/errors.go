package segment

import "errors"

// Sentinel errors for the segment service layer.
var (
	ErrNotFound        = errors.New("segment not found")
	ErrContactNotFound = errors.New("contact not found in segment")
	ErrMissingName     = errors.New("a segment name is required")
	ErrNameTooLong     = errors.New("segment name must be at most 100 characters")
	ErrDescTooLong     = errors.New("segment description must be at most 500 characters")
	ErrInvalidEmail    = errors.New("a valid email address is required")
	ErrContactName     = errors.New("contact name must be at most 120 characters")
	// ErrInUse means jobs still reference the segment.
	ErrInUse = errors.New("segment is used by scheduled jobs")
	// ErrNoValidContacts means an import held no line with an address.
	ErrNoValidContacts = errors.New("no valid contacts found for import")
)
