package job

import "errors"

// Sentinel errors for the job service layer.
var (
	ErrNotFound = errors.New("job not found")
	// ErrConflict means the job changed status between read and update.
	ErrConflict = errors.New("job status changed concurrently")
	// ErrBusy means another control action on the same job is in progress.
	ErrBusy = errors.New("job control in progress")

	ErrMissingName      = errors.New("a job name is required")
	ErrNameTooLong      = errors.New("job name must be at most 100 characters")
	ErrMissingSchedule  = errors.New("a scheduled time is required")
	ErrMissingReference = errors.New("template, segment and SMTP configuration are required")
	ErrSegmentNotFound  = errors.New("segment not found")
	ErrUnknownStatus    = errors.New("unknown job status")
	// ErrEmptySegment means the segment has no contacts to send to.
	ErrEmptySegment = errors.New("the selected segment has no contacts; add contacts before scheduling a job")
	// ErrInvalidReference means the template or SMTP configuration is gone.
	ErrInvalidReference = errors.New("template or SMTP configuration not found")
)
