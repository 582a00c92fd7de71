package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/jobs"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
	jobsvc "github.com/ignite/campaign-studio/internal/service/job"
)

// scheduleLayouts are the accepted scheduled_time formats. The ones without
// a zone are read as UTC.
var scheduleLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

func parseScheduledTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type createJobRequest struct {
	Name          string `json:"name"`
	TemplateID    int64  `json:"template_id"`
	SegmentID     int64  `json:"segment_id"`
	SMTPConfigID  int64  `json:"smtp_config_id"`
	ScheduledTime string `json:"scheduled_time"`
}

// CreateJob schedules a job for a segment.
//
//	POST /jobs
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	at, ok := parseScheduledTime(req.ScheduledTime)
	if req.ScheduledTime != "" && !ok {
		httputil.ValidationError(w, "invalid scheduled_time", map[string]string{
			"field":  "scheduled_time",
			"reason": "use RFC 3339 or YYYY-MM-DD HH:MM",
		})
		return
	}

	j, err := h.jobs.Create(r.Context(), jobsvc.NewJob{
		Name:          req.Name,
		TemplateID:    req.TemplateID,
		SegmentID:     req.SegmentID,
		SMTPConfigID:  req.SMTPConfigID,
		ScheduledTime: at,
	})
	if err != nil {
		h.jobError(w, err)
		return
	}
	httputil.Created(w, j)
}

// ListJobs lists jobs, latest scheduled first.
//
//	GET /jobs?status=&limit=
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := jobsvc.ListFilter{Status: domain.JobStatus(q.Get("status"))}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	list, err := h.jobs.List(r.Context(), f)
	if err != nil {
		h.jobError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"jobs": list, "total": len(list)})
}

// CancelJob cancels a scheduled or running job from the job list.
//
//	POST /jobs/{id}/cancel
func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	status, err := h.jobs.Cancel(r.Context(), id)
	if err != nil {
		h.jobError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"id": id, "status": status})
}

type jobView struct {
	Job      *domain.Job    `json:"job"`
	Progress jobs.Progress  `json:"progress"`
	Controls []jobs.Control `json:"controls"`
	Poll     bool           `json:"poll"`
}

// GetJob returns the job record with the controls and progress the
// monitoring page shows. Control actions redirect here.
//
//	GET /job/{id}
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	j, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		h.jobError(w, err)
		return
	}
	httputil.OK(w, jobView{
		Job:      j,
		Progress: jobs.ComputeProgress(j.Snapshot()),
		Controls: jobs.Controls(j.ID, j.Status),
		Poll:     jobs.ShouldPoll(j.Status),
	})
}

// GetJobData returns the live snapshot polled by the job page.
//
//	GET /job/{id}/data
func (h *Handlers) GetJobData(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	snap, err := h.jobs.Snapshot(r.Context(), id)
	if err != nil {
		h.jobError(w, err)
		return
	}
	httputil.OK(w, snap)
}

// GetJobLogs returns the newest job log lines.
//
//	GET /job/{id}/logs
func (h *Handlers) GetJobLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	logs, err := h.jobs.Logs(r.Context(), id)
	if err != nil {
		h.jobError(w, err)
		return
	}
	httputil.OK(w, map[string][]domain.JobLog{"logs": logs})
}

// ControlJob applies a control action and sends the browser back to the
// job page.
//
//	GET /job/{id}/control/{action}
func (h *Handlers) ControlJob(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	action, err := jobs.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	status, err := h.jobs.Control(r.Context(), id, action)
	if err != nil {
		h.jobError(w, err)
		return
	}
	h.log.Info("job control applied", "job_id", id, "action", string(action), "status", string(status))
	httputil.SeeOther(w, r, fmt.Sprintf("/job/%d", id))
}

func (h *Handlers) jobError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jobsvc.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, jobs.ErrInvalidTransition), errors.Is(err, jobs.ErrUnknownAction),
		errors.Is(err, jobsvc.ErrMissingName), errors.Is(err, jobsvc.ErrNameTooLong),
		errors.Is(err, jobsvc.ErrMissingSchedule), errors.Is(err, jobsvc.ErrMissingReference),
		errors.Is(err, jobsvc.ErrEmptySegment), errors.Is(err, jobsvc.ErrUnknownStatus),
		errors.Is(err, jobsvc.ErrSegmentNotFound), errors.Is(err, jobsvc.ErrInvalidReference):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, jobsvc.ErrBusy), errors.Is(err, jobsvc.ErrConflict):
		httputil.Conflict(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
