package tracking

import (
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
)

// 1x1 transparent GIF
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x44, 0x01, 0x00, 0x3b,
}

var unsubscribedPage = template.Must(template.New("unsubscribed").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Unsubscribed</title></head>
<body style="font-family:Arial,sans-serif;text-align:center;padding:50px;">
<h1>You have been unsubscribed</h1>
{{if .}}<p>{{.}} will no longer receive emails from us.</p>{{else}}<p>You will no longer receive emails from us.</p>{{end}}
</body></html>`))

// Handler serves the tracking endpoints that instrumented links point at.
type Handler struct {
	sink Sink
	now  func() time.Time
}

// NewHandler creates tracking handlers publishing to sink.
func NewHandler(sink Sink) *Handler {
	return &Handler{sink: sink, now: time.Now}
}

// Mount registers the tracking routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/track/{jobID}/open", h.HandleOpen)
	r.Get("/track/{jobID}/click", h.HandleClick)
	r.Get("/track/{jobID}/unsubscribe", h.HandleUnsubscribe)
}

func (h *Handler) event(r *http.Request, t domain.TrackingEventType, jobID int64, email string) domain.TrackingEvent {
	return domain.TrackingEvent{
		JobID:     jobID,
		Email:     email,
		EventType: t,
		IPAddress: realIP(r),
		UserAgent: r.UserAgent(),
		CreatedAt: h.now().UTC(),
	}
}

// HandleOpen always answers with the pixel; a bad job id only skips the event.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	if jobID, ok := parseJobID(r); ok {
		h.sink.Publish(r.Context(), h.event(r, domain.EventOpen, jobID, r.URL.Query().Get("recipient")))
	}
	servePixel(w)
}

// HandleClick redirects to the original link. Only absolute http(s) targets
// are followed so the endpoint is not an open redirect to other schemes.
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	target, ok := redirectTarget(r.URL.Query().Get("url"))
	if !ok {
		httputil.BadRequest(w, "invalid link")
		return
	}
	if jobID, ok := parseJobID(r); ok {
		evt := h.event(r, domain.EventClick, jobID, r.URL.Query().Get("recipient"))
		evt.URL = target
		h.sink.Publish(r.Context(), evt)
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// HandleUnsubscribe records the opt-out and shows a confirmation page.
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseJobID(r)
	if !ok {
		httputil.BadRequest(w, "invalid unsubscribe link")
		return
	}
	email := r.URL.Query().Get("email")
	h.sink.Publish(r.Context(), h.event(r, domain.EventUnsubscribe, jobID, email))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = unsubscribedPage.Execute(w, email)
}

func parseJobID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "jobID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func redirectTarget(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return u.String(), true
}

func servePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Write(pixelGIF)
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
