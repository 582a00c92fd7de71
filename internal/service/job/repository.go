package job

import (
	"context"
	"time"

	"github.com/ignite/campaign-studio/internal/domain"
)

// Repository defines the data access contract for jobs and their logs.
type Repository interface {
	// Get returns a job or ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Job, error)

	// UpdateStatus moves a job from one status to another. It returns
	// ErrConflict if the stored status is no longer from. started_at is set
	// the first time a job runs and completed_at when it becomes terminal.
	UpdateStatus(ctx context.Context, id int64, from, to domain.JobStatus, at time.Time) error

	// Logs returns the newest log lines first, at most limit of them.
	Logs(ctx context.Context, jobID int64, limit int) ([]domain.JobLog, error)

	// AddLog appends a log line.
	AddLog(ctx context.Context, l *domain.JobLog) error

	// Create inserts a scheduled job and fills its id, status and
	// timestamps. It returns ErrInvalidReference when the template or SMTP
	// configuration does not exist.
	Create(ctx context.Context, j *domain.Job) error

	// List returns jobs, latest scheduled_time first.
	List(ctx context.Context, f ListFilter) ([]domain.Job, error)

	// SegmentSize counts the contacts of a segment. It returns
	// ErrSegmentNotFound for an unknown segment.
	SegmentSize(ctx context.Context, segmentID int64) (int, error)

	// Stats aggregates job counts by status and email totals across jobs.
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// ListFilter narrows a job listing. A zero Status lists every status.
type ListFilter struct {
	Status domain.JobStatus
	Limit  int
}

// SnapshotCache is the optional read-through cache for job snapshots.
type SnapshotCache interface {
	Get(ctx context.Context, jobID int64) (domain.JobSnapshot, bool, error)
	Set(ctx context.Context, snap domain.JobSnapshot) error
	Invalidate(ctx context.Context, jobID int64) error
}

// Locker runs fn while holding the lock on key.
type Locker interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
