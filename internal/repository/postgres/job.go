package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/service/job"
)

// JobRepo implements job.Repository against PostgreSQL.
type JobRepo struct{ db *sql.DB }

// NewJobRepo creates a Postgres-backed job repository.
func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{db: db} }

const jobColumns = `id, name, status, template_id, segment_id, smtp_config_id, scheduled_time,
	total_emails, sent_emails, failed_emails, opened_emails, clicked_emails, avg_sending_rate,
	started_at, completed_at, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (domain.Job, error) {
	var j domain.Job
	err := row.Scan(&j.ID, &j.Name, &j.Status, &j.TemplateID, &j.SegmentID, &j.SMTPConfigID, &j.ScheduledTime,
		&j.TotalEmails, &j.SentEmails, &j.FailedEmails, &j.OpenedEmails, &j.ClickedEmails, &j.AvgSendingRate,
		&j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (r *JobRepo) Get(ctx context.Context, id int64) (*domain.Job, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM scheduled_jobs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, job.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO scheduled_jobs (name, status, template_id, segment_id, smtp_config_id, scheduled_time, total_emails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, j.Name, j.Status, j.TemplateID, j.SegmentID, j.SMTPConfigID, j.ScheduledTime, j.TotalEmails,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if pqErr, ok := foreignKeyViolation(err); ok {
		if pqErr.Constraint == "scheduled_jobs_segment_fk" {
			return job.ErrSegmentNotFound
		}
		return fmt.Errorf("%w: %s", job.ErrInvalidReference, pqErr.Constraint)
	}
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (r *JobRepo) List(ctx context.Context, f job.ListFilter) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM scheduled_jobs
		WHERE ($1 = '' OR status = $1)
		ORDER BY scheduled_time DESC, id DESC
		LIMIT $2
	`, string(f.Status), f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *JobRepo) SegmentSize(ctx context.Context, segmentID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM contacts c WHERE c.segment_id = s.id)
		FROM email_segments s WHERE s.id = $1
	`, segmentID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, job.ErrSegmentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("count segment contacts: %w", err)
	}
	return n, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.JobStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_jobs SET
			status = $3,
			started_at = CASE WHEN $3 = 'running' AND started_at IS NULL THEN $4 ELSE started_at END,
			completed_at = CASE WHEN $3 IN ('completed', 'failed', 'cancelled') THEN $4 ELSE completed_at END,
			updated_at = $4
		WHERE id = $1 AND status = $2
	`, id, from, to, at)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return job.ErrConflict
	}
	return nil
}

func (r *JobRepo) Logs(ctx context.Context, jobID int64, limit int) ([]domain.JobLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, timestamp, level, message
		FROM job_logs
		WHERE job_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("list job logs: %w", err)
	}
	defer rows.Close()

	out := []domain.JobLog{}
	for rows.Next() {
		var l domain.JobLog
		if err := rows.Scan(&l.ID, &l.JobID, &l.Timestamp, &l.Level, &l.Message); err != nil {
			return nil, fmt.Errorf("scan job log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *JobRepo) AddLog(ctx context.Context, l *domain.JobLog) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO job_logs (job_id, timestamp, level, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, l.JobID, l.Timestamp, l.Level, l.Message).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("add job log: %w", err)
	}
	return nil
}

func (r *JobRepo) Stats(ctx context.Context) (domain.DashboardStats, error) {
	st := domain.DashboardStats{JobsByStatus: map[domain.JobStatus]int{}}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM scheduled_jobs GROUP BY status`)
	if err != nil {
		return st, fmt.Errorf("count jobs by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.JobStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return st, fmt.Errorf("scan status count: %w", err)
		}
		st.JobsByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_emails), 0), COALESCE(SUM(sent_emails), 0), COALESCE(SUM(failed_emails), 0),
		       COALESCE(SUM(opened_emails), 0), COALESCE(SUM(clicked_emails), 0)
		FROM scheduled_jobs
	`).Scan(&st.TotalEmails, &st.SentEmails, &st.FailedEmails, &st.OpenedEmails, &st.ClickedEmails)
	if err != nil {
		return st, fmt.Errorf("sum job emails: %w", err)
	}
	return st, nil
}
