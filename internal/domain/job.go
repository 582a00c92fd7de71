package domain

import "time"

// JobStatus enumerates the lifecycle states of a sending job.
type JobStatus string

const (
	JobScheduled JobStatus = "scheduled"
	JobRunning   JobStatus = "running"
	JobPaused    JobStatus = "paused"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// AllJobStatuses lists every status in dashboard order.
var AllJobStatuses = []JobStatus{JobScheduled, JobRunning, JobPaused, JobCompleted, JobFailed, JobCancelled}

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	for _, v := range AllJobStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal returns true once the job can no longer change state.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Job is a scheduled send of one template to one segment through one SMTP config.
type Job struct {
	ID             int64      `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Status         JobStatus  `json:"status" db:"status"`
	TemplateID     int64      `json:"template_id" db:"template_id"`
	SegmentID      int64      `json:"segment_id" db:"segment_id"`
	SMTPConfigID   int64      `json:"smtp_config_id" db:"smtp_config_id"`
	ScheduledTime  time.Time  `json:"scheduled_time" db:"scheduled_time"`
	TotalEmails    int        `json:"total_emails" db:"total_emails"`
	SentEmails     int        `json:"sent_emails" db:"sent_emails"`
	FailedEmails   int        `json:"failed_emails" db:"failed_emails"`
	OpenedEmails   int        `json:"opened_emails" db:"opened_emails"`
	ClickedEmails  int        `json:"clicked_emails" db:"clicked_emails"`
	AvgSendingRate float64    `json:"avg_sending_rate" db:"avg_sending_rate"`
	StartedAt      *time.Time `json:"started_at" db:"started_at"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Snapshot returns the polled view of the job.
func (j *Job) Snapshot() JobSnapshot {
	return JobSnapshot{
		ID:             j.ID,
		Status:         j.Status,
		TotalEmails:    j.TotalEmails,
		SentEmails:     j.SentEmails,
		FailedEmails:   j.FailedEmails,
		OpenedEmails:   j.OpenedEmails,
		ClickedEmails:  j.ClickedEmails,
		AvgSendingRate: j.AvgSendingRate,
		StartedAt:      j.StartedAt,
	}
}

// JobSnapshot is the body of GET /job/{id}/data.
type JobSnapshot struct {
	ID             int64      `json:"id,omitempty"`
	Status         JobStatus  `json:"status"`
	TotalEmails    int        `json:"total_emails"`
	SentEmails     int        `json:"sent_emails"`
	FailedEmails   int        `json:"failed_emails"`
	StartedAt      *time.Time `json:"started_at"`
	AvgSendingRate float64    `json:"avg_sending_rate"`
	OpenedEmails   int        `json:"opened_emails"`
	ClickedEmails  int        `json:"clicked_emails"`
}

// LogLevel is the severity of a job log line.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// JobLog is one line of a job's activity log.
type JobLog struct {
	ID        int64     `json:"-" db:"id"`
	JobID     int64     `json:"-" db:"job_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Level     LogLevel  `json:"level" db:"level"`
	Message   string    `json:"message" db:"message"`
}

// JobAction is a control link target.
type JobAction string

const (
	ActionStart  JobAction = "start"
	ActionPause  JobAction = "pause"
	ActionResume JobAction = "resume"
	ActionStop   JobAction = "stop"
	ActionCancel JobAction = "cancel"
)
