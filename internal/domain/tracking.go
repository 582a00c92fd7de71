package domain

import "time"

// TrackingEventType enumerates the recipient engagement events the tracking
// endpoints receive.
type TrackingEventType string

const (
	EventOpen        TrackingEventType = "open"
	EventClick       TrackingEventType = "click"
	EventUnsubscribe TrackingEventType = "unsubscribe"
)

// TrackingEvent is a single engagement event from an email recipient.
type TrackingEvent struct {
	ID        string            `json:"id"`
	JobID     int64             `json:"job_id"`
	Email     string            `json:"email"`
	EventType TrackingEventType `json:"event_type"`
	URL       string            `json:"url,omitempty"`
	IPAddress string            `json:"ip_address,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Device    string            `json:"device,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
