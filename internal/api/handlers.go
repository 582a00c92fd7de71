package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-studio/internal/blocks"
	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/instrument"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
	jobsvc "github.com/ignite/campaign-studio/internal/service/job"
	"github.com/ignite/campaign-studio/internal/service/suppression"
	"github.com/ignite/campaign-studio/internal/service/template"
	"github.com/ignite/campaign-studio/internal/tracking"
)

// JobService is implemented by service/job.Service.
type JobService interface {
	Create(ctx context.Context, req jobsvc.NewJob) (*domain.Job, error)
	Get(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context, f jobsvc.ListFilter) ([]domain.Job, error)
	Cancel(ctx context.Context, id int64) (domain.JobStatus, error)
	Snapshot(ctx context.Context, id int64) (domain.JobSnapshot, error)
	Logs(ctx context.Context, id int64) ([]domain.JobLog, error)
	Control(ctx context.Context, id int64, action domain.JobAction) (domain.JobStatus, error)
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

// SMTPStore loads and saves SMTP configurations.
type SMTPStore interface {
	Get(ctx context.Context, id int64) (*domain.SMTPConfig, error)
	Save(ctx context.Context, c *domain.SMTPConfig) error
}

// SMTPTester runs a connection test against a configuration.
type SMTPTester interface {
	Test(ctx context.Context, c domain.SMTPConfig) domain.SMTPTestResult
}

// TemplateService is implemented by service/template.Service.
type TemplateService interface {
	Submit(ctx context.Context, req template.SubmitRequest) (*domain.Template, error)
	Get(ctx context.Context, id int64) (*domain.Template, error)
}

// SegmentService is implemented by service/segment.Service.
type SegmentService interface {
	Create(ctx context.Context, name, description string) (*domain.Segment, error)
	Update(ctx context.Context, id int64, name, description string) (*domain.Segment, error)
	Get(ctx context.Context, id int64) (*domain.Segment, error)
	List(ctx context.Context) ([]domain.Segment, error)
	Delete(ctx context.Context, id int64) error
	AddContact(ctx context.Context, segmentID int64, email, name string) (*domain.Contact, error)
	ImportContacts(ctx context.Context, segmentID int64, text string) (domain.ContactImport, error)
	Contacts(ctx context.Context, segmentID int64) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, segmentID, contactID int64) error
}

// SuppressionService is implemented by service/suppression.Service.
type SuppressionService interface {
	Suppress(ctx context.Context, email string, reason domain.SuppressionReason, source domain.SuppressionSource, jobID *int64) error
	Remove(ctx context.Context, email string) error
	List(ctx context.Context, filter suppression.ListFilter) ([]domain.Suppression, int, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	jobs         JobService
	smtp         SMTPStore
	tester       SMTPTester
	templates    TemplateService
	segments     SegmentService
	suppressions SuppressionService
	tracking     *tracking.Handler
	health       *HealthChecker
	editor       *instrument.Editor
	blocks       *blocks.Renderer
	log          *logger.Logger
}

// NewHandlers creates the handlers from d.
func NewHandlers(d Deps) *Handlers {
	health := d.Health
	if health == nil {
		health = NewHealthChecker(nil, nil)
	}
	return &Handlers{
		jobs:         d.Jobs,
		smtp:         d.SMTP,
		tester:       d.Tester,
		templates:    d.Templates,
		segments:     d.Segments,
		suppressions: d.Suppressions,
		tracking:     d.Tracking,
		health:       health,
		editor:       instrument.NewEditor(nil),
		blocks:       blocks.NewRenderer(),
		log:          logger.Default().With("component", "api"),
	}
}

// idParam reads a positive integer URL parameter, writing a 400 when it is
// missing or malformed.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httputil.BadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}
