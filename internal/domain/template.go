package domain

import "time"

// Template is a saved email template. Content is already instrumented and
// Type is the comma-joined list of tracking kinds applied to it.
type Template struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Subject    string    `json:"subject" db:"subject"`
	Content    string    `json:"content" db:"content"`
	Type       string    `json:"type" db:"type"`
	Version    int       `json:"version" db:"version"`
	IsDraft    bool      `json:"is_draft" db:"is_draft"`
	ParentID   *int64    `json:"parent_id,omitempty" db:"parent_id"`
	ArchiveKey string    `json:"archive_key,omitempty" db:"archive_key"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
