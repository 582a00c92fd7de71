package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/campaign-studio/internal/domain"
)

// TrackingRepo stores tracking events and keeps the job engagement counters.
type TrackingRepo struct{ db *sql.DB }

// NewTrackingRepo creates a Postgres-backed tracking event store.
func NewTrackingRepo(db *sql.DB) *TrackingRepo { return &TrackingRepo{db: db} }

// InsertEvent stores evt and claims the (job, recipient, type) slot in
// tracking_first_events in the same statement. The unique key serialises
// concurrent hits, so exactly one of them sees first = true.
func (r *TrackingRepo) InsertEvent(ctx context.Context, evt *domain.TrackingEvent) (bool, error) {
	var first bool
	err := r.db.QueryRowContext(ctx, `
		WITH ins AS (
			INSERT INTO tracking_events (id, job_id, email, event_type, url, ip_address, user_agent, device, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
			RETURNING job_id, email, event_type
		), claimed AS (
			INSERT INTO tracking_first_events (job_id, email, event_type, first_seen_at)
			SELECT job_id, email, event_type, $9 FROM ins
			ON CONFLICT (job_id, email, event_type) DO NOTHING
			RETURNING 1
		)
		SELECT EXISTS (SELECT 1 FROM claimed)
	`, evt.ID, evt.JobID, evt.Email, evt.EventType, evt.URL, evt.IPAddress, evt.UserAgent, evt.Device, evt.CreatedAt).Scan(&first)
	if err != nil {
		return false, fmt.Errorf("insert tracking event: %w", err)
	}
	return first, nil
}

func (r *TrackingRepo) IncrementJobCounter(ctx context.Context, jobID int64, t domain.TrackingEventType) error {
	var column string
	switch t {
	case domain.EventOpen:
		column = "opened_emails"
	case domain.EventClick:
		column = "clicked_emails"
	default:
		return fmt.Errorf("no counter for %s events", t)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_jobs SET `+column+` = `+column+` + 1, updated_at = NOW() WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("increment %s: %w", column, err)
	}
	return nil
}
