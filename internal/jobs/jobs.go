// Package jobs holds the rules behind the job monitoring page: which control
// links a status offers, which actions move a job where, and how progress and
// log rows are presented.
package jobs

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ignite/campaign-studio/internal/domain"
)

// ErrInvalidTransition is returned when an action does not apply to the
// job's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownAction is returned for a control path segment that names no action.
var ErrUnknownAction = errors.New("unknown job action")

// Control is one navigational control link.
type Control struct {
	Action domain.JobAction `json:"action"`
	Label  string           `json:"label"`
	Icon   string           `json:"icon"`
	Style  string           `json:"style"`
	Href   string           `json:"href"`
}

type controlSpec struct {
	action domain.JobAction
	label  string
	icon   string
	style  string
}

var controlSets = map[domain.JobStatus][]controlSpec{
	domain.JobScheduled: {
		{domain.ActionStart, "Start Now", "fa-play", "btn-primary"},
		{domain.ActionCancel, "Cancel", "fa-times", "btn-danger"},
	},
	domain.JobRunning: {
		{domain.ActionPause, "Pause", "fa-pause", "btn-warning"},
		{domain.ActionStop, "Stop", "fa-stop", "btn-danger"},
	},
	domain.JobPaused: {
		{domain.ActionResume, "Resume", "fa-play", "btn-primary"},
		{domain.ActionStop, "Stop", "fa-stop", "btn-danger"},
	},
}

// Controls returns the control links offered for a job in the given status.
// Terminal and unknown statuses get none.
func Controls(jobID int64, status domain.JobStatus) []Control {
	specs := controlSets[status]
	out := make([]Control, 0, len(specs))
	for _, s := range specs {
		out = append(out, Control{
			Action: s.action,
			Label:  s.label,
			Icon:   s.icon,
			Style:  s.style,
			Href:   ControlHref(jobID, s.action),
		})
	}
	return out
}

// ControlHref is the GET link that applies action to the job.
func ControlHref(jobID int64, action domain.JobAction) string {
	return fmt.Sprintf("/job/%d/control/%s", jobID, action)
}

// ParseAction validates a control path segment.
func ParseAction(s string) (domain.JobAction, error) {
	switch a := domain.JobAction(strings.ToLower(strings.TrimSpace(s))); a {
	case domain.ActionStart, domain.ActionPause, domain.ActionResume, domain.ActionStop, domain.ActionCancel:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Transition returns the status a job moves to when action is applied.
func Transition(from domain.JobStatus, action domain.JobAction) (domain.JobStatus, error) {
	switch action {
	case domain.ActionStart:
		if from == domain.JobScheduled {
			return domain.JobRunning, nil
		}
	case domain.ActionCancel:
		if from == domain.JobScheduled || from == domain.JobRunning {
			return domain.JobCancelled, nil
		}
	case domain.ActionPause:
		if from == domain.JobRunning {
			return domain.JobPaused, nil
		}
	case domain.ActionResume:
		if from == domain.JobPaused {
			return domain.JobRunning, nil
		}
	case domain.ActionStop:
		if from == domain.JobRunning || from == domain.JobPaused {
			return domain.JobCompleted, nil
		}
	}
	return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
}

// ShouldPoll reports whether the monitoring page keeps refreshing a job.
func ShouldPoll(status domain.JobStatus) bool {
	return status == domain.JobRunning || status == domain.JobPaused
}

// Progress is the rendered state of the progress panel.
type Progress struct {
	Percent   float64 `json:"percent"`
	Label     string  `json:"label"`
	Sent      int     `json:"sent"`
	Failed    int     `json:"failed"`
	Remaining int     `json:"remaining"`
	RateLabel string  `json:"rate_label"`
}

// ComputeProgress derives the progress panel from a snapshot. Percent counts
// sent emails only; remaining excludes both sent and failed.
func ComputeProgress(s domain.JobSnapshot) Progress {
	var pct float64
	if s.TotalEmails > 0 {
		pct = float64(s.SentEmails) / float64(s.TotalEmails) * 100
	}
	return Progress{
		Percent:   pct,
		Label:     fmt.Sprintf("%.1f%%", roundHalfUp(pct, 1)),
		Sent:      s.SentEmails,
		Failed:    s.FailedEmails,
		Remaining: s.TotalEmails - (s.SentEmails + s.FailedEmails),
		RateLabel: fmt.Sprintf("%.2f emails/sec", s.AvgSendingRate),
	}
}

func roundHalfUp(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

// NoLogsMessage fills the log table when a job has no entries yet.
const NoLogsMessage = "No logs available yet"

// LogRow is one rendered row of the log table.
type LogRow struct {
	Timestamp   string `json:"timestamp"`
	Level       string `json:"level"`
	Message     string `json:"message"`
	RowClass    string `json:"row_class"`
	BadgeClass  string `json:"badge_class"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// LogTimeLayout formats log timestamps in the table.
const LogTimeLayout = "2006-01-02 15:04:05"

// LogRows maps job logs to table rows. An empty input yields a single
// placeholder row.
func LogRows(logs []domain.JobLog) []LogRow {
	if len(logs) == 0 {
		return []LogRow{{Message: NoLogsMessage, Placeholder: true}}
	}
	rows := make([]LogRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, LogRow{
			Timestamp:  l.Timestamp.Format(LogTimeLayout),
			Level:      strings.ToUpper(string(l.Level)),
			Message:    l.Message,
			RowClass:   rowClass(l.Level),
			BadgeClass: badgeClass(l.Level),
		})
	}
	return rows
}

func rowClass(level domain.LogLevel) string {
	switch level {
	case domain.LogError:
		return "table-danger"
	case domain.LogWarning:
		return "table-warning"
	}
	return ""
}

// badgeClass falls through to danger for anything that is not info or warning.
func badgeClass(level domain.LogLevel) string {
	switch level {
	case domain.LogInfo:
		return "bg-info"
	case domain.LogWarning:
		return "bg-warning"
	}
	return "bg-danger"
}
