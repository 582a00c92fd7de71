package domain

import "time"

// SuppressionReason enumerates why an address was suppressed.
type SuppressionReason string

const (
	ReasonUnsubscribe SuppressionReason = "unsubscribe"
	ReasonManual      SuppressionReason = "manual"
)

// SuppressionSource indicates where the suppression signal originated.
type SuppressionSource string

const (
	SourceTracking SuppressionSource = "tracking_unsubscribe"
	SourceManual   SuppressionSource = "manual"
)

// Suppression is one entry in the suppression list.
type Suppression struct {
	ID        string            `json:"id" db:"id"`
	Email     string            `json:"email" db:"email"`
	MD5Hash   string            `json:"md5_hash" db:"md5_hash"`
	Reason    SuppressionReason `json:"reason" db:"reason"`
	Source    SuppressionSource `json:"source" db:"source"`
	JobID     *int64            `json:"job_id,omitempty" db:"job_id"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
