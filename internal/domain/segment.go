package domain

import "time"

// Segment is a named list of recipients a job sends to.
type Segment struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	ContactCount int       `json:"contact_count" db:"contact_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Contact is one recipient of a segment.
type Contact struct {
	ID        int64     `json:"id" db:"id"`
	SegmentID int64     `json:"segment_id" db:"segment_id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactImport is the outcome of a bulk contact import.
type ContactImport struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}
