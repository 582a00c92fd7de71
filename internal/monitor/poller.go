package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/ignite/campaign-studio/internal/charts"
	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/jobs"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// DefaultInterval matches the monitoring page refresh.
const DefaultInterval = 5 * time.Second

// startedAtLayout renders started_at like a browser's time-only string.
const startedAtLayout = "15:04:05"

// Fetcher is the part of Client the poller needs.
type Fetcher interface {
	JobData(ctx context.Context, jobID int64) (domain.JobSnapshot, error)
	JobLogs(ctx context.Context, jobID int64) ([]domain.JobLog, error)
}

// Poller refreshes one job's view on a fixed interval.
type Poller struct {
	fetcher  Fetcher
	jobID    int64
	interval time.Duration
	view     View
	charts   *charts.Registry
	log      *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	status    domain.JobStatus
	startedAt string

	cancel   context.CancelFunc
	inflight sync.WaitGroup
	loop     sync.WaitGroup
}

// NewPoller creates a poller for jobID. The chart registry is owned by the
// caller and updated in place.
func NewPoller(f Fetcher, jobID int64, interval time.Duration, view View, reg *charts.Registry) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  f,
		jobID:    jobID,
		interval: interval,
		view:     view,
		charts:   reg,
		log:      logger.Default().With("component", "monitor", "job_id", jobID),
		now:      time.Now,
	}
}

// Start loads the job once and, if it is running or paused, keeps polling
// until Stop or ctx is done. It returns the initial snapshot.
func (p *Poller) Start(ctx context.Context) (domain.JobSnapshot, error) {
	snap, err := p.fetcher.JobData(ctx, p.jobID)
	if err != nil {
		return domain.JobSnapshot{}, err
	}
	p.apply(snap)
	p.refreshLogs(ctx)

	if !jobs.ShouldPoll(snap.Status) {
		p.log.Info("job not active, polling disabled", "status", string(snap.Status))
		return snap, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.loop.Add(1)
	go p.run(ctx)
	return snap, nil
}

// Stop ends the loop and waits for fetches still in flight.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.loop.Wait()
	p.inflight.Wait()
}

// Status returns the status last applied to the view.
func (p *Poller) Status() domain.JobStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) run(ctx context.Context) {
	defer p.loop.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.inflight.Add(1)
			go func() {
				defer p.inflight.Done()
				p.Refresh(ctx)
			}()
		}
	}
}

// Refresh performs one poll: fetch the snapshot, patch the view, then
// refresh logs. Failures are logged and leave the last good state shown.
func (p *Poller) Refresh(ctx context.Context) {
	snap, err := p.fetcher.JobData(ctx, p.jobID)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Error("refreshing job data", "error", err.Error())
		}
		return
	}
	p.apply(snap)
	p.refreshLogs(ctx)
}

func (p *Poller) refreshLogs(ctx context.Context) {
	logs, err := p.fetcher.JobLogs(ctx, p.jobID)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Error("fetching logs", "error", err.Error())
		}
		return
	}
	rows := jobs.LogRows(logs)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.RenderLogs(rows)
}

func (p *Poller) apply(snap domain.JobSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = snap.Status
	if snap.StartedAt != nil {
		p.startedAt = snap.StartedAt.Local().Format(startedAtLayout)
	}
	if p.charts != nil {
		p.charts.Update(snap, p.now())
	}

	f := Frame{
		JobID:     p.jobID,
		Status:    snap.Status,
		Progress:  jobs.ComputeProgress(snap),
		StartedAt: p.startedAt,
		Controls:  jobs.Controls(p.jobID, snap.Status),
	}
	if p.charts != nil {
		f.Opens = p.charts.Opens()
		f.Clicks = p.charts.Clicks()
		f.Rate = p.charts.SendingRate()
	}
	p.view.RenderJob(f)
}
