// Package api serves the campaign studio HTTP endpoints: job scheduling and
// controls, segments and contacts, SMTP configuration, the template editor,
// dashboard charts, suppressions and the tracking receiver.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/campaign-studio/internal/pkg/httputil"
	"github.com/ignite/campaign-studio/internal/tracking"
)

// Deps are the collaborators the handlers need. Segments, Tracking and
// Suppressions may be nil; their routes are then not mounted.
type Deps struct {
	Jobs         JobService
	SMTP         SMTPStore
	Tester       SMTPTester
	Templates    TemplateService
	Segments     SegmentService
	Suppressions SuppressionService
	Tracking     *tracking.Handler
	Health       *HealthChecker
}

// SetupRoutes builds the router.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.health.HandleLiveness)
	r.Get("/health/ready", h.health.HandleReadiness)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.ListJobs)
		r.Post("/", h.CreateJob)
		r.Post("/{id}/cancel", h.CancelJob)
	})

	r.Route("/job/{id}", func(r chi.Router) {
		r.Get("/", h.GetJob)
		r.Get("/data", h.GetJobData)
		r.Get("/logs", h.GetJobLogs)
		r.Get("/control/{action}", h.ControlJob)
	})

	r.Route("/smtp-config", func(r chi.Router) {
		r.Post("/", h.CreateSMTPConfig)
		r.Get("/{id}", h.GetSMTPConfig)
		r.Put("/{id}", h.UpdateSMTPConfig)
		r.Post("/{id}/test", h.TestSMTPConfig)
	})

	r.Route("/editor", func(r chi.Router) {
		r.Post("/preview", h.PreviewTemplate)
		r.Post("/submit", h.SubmitTemplate)
		r.Get("/blocks/{kind}", h.GetBlock)
		r.Get("/tooltips", h.GetTooltips)
	})
	r.Get("/template/{id}", h.GetTemplate)

	r.Get("/dashboard/stats", h.GetDashboardStats)

	if h.segments != nil {
		r.Route("/segments", func(r chi.Router) {
			r.Get("/", h.ListSegments)
			r.Post("/", h.CreateSegment)
			r.Get("/{id}", h.GetSegment)
			r.Put("/{id}", h.UpdateSegment)
			r.Delete("/{id}", h.DeleteSegment)
			r.Get("/{id}/contacts", h.ListContacts)
			r.Post("/{id}/contacts", h.AddContact)
			r.Post("/{id}/contacts/import", h.ImportContacts)
			r.Delete("/{id}/contacts/{contactID}", h.DeleteContact)
		})
	}

	if h.suppressions != nil {
		r.Route("/suppressions", func(r chi.Router) {
			r.Get("/", h.ListSuppressions)
			r.Post("/", h.AddSuppression)
			r.Delete("/{email}", h.RemoveSuppression)
		})
	}

	if h.tracking != nil {
		h.tracking.Mount(r)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.NotFound(w, "not found")
	})
	return r
}
