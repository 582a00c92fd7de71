package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/jobs"
	"github.com/ignite/campaign-studio/internal/pkg/distlock"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// LogLimit is how many log lines GET /job/{id}/logs returns.
const LogLimit = 100

const (
	defaultListLimit = 100
	maxListLimit     = 500
	maxNameLen       = 100
)

var actionMessages = map[domain.JobAction]string{
	domain.ActionStart:  "Job started manually",
	domain.ActionPause:  "Job paused",
	domain.ActionResume: "Job resumed",
	domain.ActionStop:   "Job stopped",
	domain.ActionCancel: "Job cancelled",
}

// Service implements job monitoring and control. It is safe for concurrent use.
type Service struct {
	repo   Repository
	cache  SnapshotCache
	locker Locker
	log    *logger.Logger
	now    func() time.Time
}

// NewService creates a job service. cache and locker may be nil: without a
// cache every snapshot reads the repository, without a locker control
// actions rely on the conditional update alone.
func NewService(repo Repository, cache SnapshotCache, locker Locker) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		locker: locker,
		log:    logger.Default().With("component", "job_service"),
		now:    time.Now,
	}
}

// NewJob is the input for scheduling a job.
type NewJob struct {
	Name          string    `json:"name"`
	TemplateID    int64     `json:"template_id"`
	SegmentID     int64     `json:"segment_id"`
	SMTPConfigID  int64     `json:"smtp_config_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// Create schedules a job. total_emails is fixed to the segment's contact
// count at this moment, and a segment without contacts is refused.
func (s *Service) Create(ctx context.Context, req NewJob) (*domain.Job, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, ErrMissingName
	case utf8.RuneCountInString(name) > maxNameLen:
		return nil, ErrNameTooLong
	case req.TemplateID <= 0 || req.SegmentID <= 0 || req.SMTPConfigID <= 0:
		return nil, ErrMissingReference
	case req.ScheduledTime.IsZero():
		return nil, ErrMissingSchedule
	}

	size, err := s.repo.SegmentSize(ctx, req.SegmentID)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, ErrEmptySegment
	}

	j := &domain.Job{
		Name:          name,
		Status:        domain.JobScheduled,
		TemplateID:    req.TemplateID,
		SegmentID:     req.SegmentID,
		SMTPConfigID:  req.SMTPConfigID,
		ScheduledTime: req.ScheduledTime.UTC(),
		TotalEmails:   size,
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}
	s.log.Info("job scheduled", "job_id", j.ID, "segment_id", j.SegmentID, "total_emails", j.TotalEmails,
		"scheduled_time", j.ScheduledTime.Format(time.RFC3339))
	return j, nil
}

// Get returns the full job record.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Job, error) {
	return s.repo.Get(ctx, id)
}

// List returns jobs latest first. The limit defaults to 100 and is capped
// at 500.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Job, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, f.Status)
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Job{}
	}
	return out, nil
}

// Cancel cancels a scheduled or running job from the job list.
func (s *Service) Cancel(ctx context.Context, id int64) (domain.JobStatus, error) {
	return s.Control(ctx, id, domain.ActionCancel)
}

// Snapshot returns the polled view of a job, from cache when fresh.
func (s *Service) Snapshot(ctx context.Context, id int64) (domain.JobSnapshot, error) {
	if s.cache != nil {
		snap, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("snapshot cache read failed", "job_id", id, "error", err.Error())
		} else if ok {
			return snap, nil
		}
	}

	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.JobSnapshot{}, err
	}
	snap := j.Snapshot()

	if s.cache != nil {
		if err := s.cache.Set(ctx, snap); err != nil {
			s.log.Warn("snapshot cache write failed", "job_id", id, "error", err.Error())
		}
	}
	return snap, nil
}

// Logs returns the latest log lines of a job, newest first.
func (s *Service) Logs(ctx context.Context, id int64) ([]domain.JobLog, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	logs, err := s.repo.Logs(ctx, id, LogLimit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.JobLog{}
	}
	return logs, nil
}

// Control applies action to a job and returns its new status. An action
// that does not apply to the current status yields jobs.ErrInvalidTransition.
func (s *Service) Control(ctx context.Context, id int64, action domain.JobAction) (domain.JobStatus, error) {
	var next domain.JobStatus
	apply := func(ctx context.Context) error {
		var err error
		next, err = s.control(ctx, id, action)
		return err
	}

	var err error
	if s.locker == nil {
		err = apply(ctx)
	} else {
		err = s.locker.Do(ctx, distlock.JobControlKey(id), apply)
	}
	if errors.Is(err, distlock.ErrNotAcquired) {
		return "", fmt.Errorf("%w: job %d", ErrBusy, id)
	}
	return next, err
}

func (s *Service) control(ctx context.Context, id int64, action domain.JobAction) (domain.JobStatus, error) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	next, err := jobs.Transition(j.Status, action)
	if err != nil {
		return j.Status, err
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, j.Status, next, now); err != nil {
		return j.Status, err
	}

	level := domain.LogInfo
	if action == domain.ActionCancel {
		level = domain.LogWarning
	}
	entry := &domain.JobLog{JobID: id, Timestamp: now, Level: level, Message: actionMessages[action]}
	if err := s.repo.AddLog(ctx, entry); err != nil {
		// the status change already committed
		s.log.Error("writing job log", "job_id", id, "error", err.Error())
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn("snapshot cache invalidate failed", "job_id", id, "error", err.Error())
		}
	}

	s.log.Info("job status changed", "job_id", id, "action", string(action), "from", string(j.Status), "to", string(next))
	return next, nil
}

// DashboardStats returns the aggregates behind the dashboard charts.
func (s *Service) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	if st.JobsByStatus == nil {
		st.JobsByStatus = map[domain.JobStatus]int{}
	}
	return st, nil
}
