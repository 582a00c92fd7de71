package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-studio/internal/blocks"
	"github.com/ignite/campaign-studio/internal/instrument"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
	"github.com/ignite/campaign-studio/internal/service/template"
	"github.com/ignite/campaign-studio/internal/tooltips"
)

type previewRequest struct {
	instrument.EmailDraft
	Tracking     instrument.TrackingConfig       `json:"tracking"`
	Personalize  *instrument.PersonalizationData `json:"personalize,omitempty"`
	ShowTracking bool                            `json:"show_tracking"`
}

type submitRequest struct {
	instrument.EmailDraft
	Name     string                    `json:"name"`
	ParentID *int64                    `json:"parent_id,omitempty"`
	IsDraft  bool                      `json:"is_draft"`
	Tracking instrument.TrackingConfig `json:"tracking"`
}

type submitResponse struct {
	ID         int64  `json:"id"`
	Version    int    `json:"version"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

// PreviewTemplate renders the draft for the preview pane.
//
//	POST /editor/preview
func (h *Handlers) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if !h.validTracking(w, req.Tracking) {
		return
	}
	p, err := h.editor.Preview(req.EmailDraft, req.Tracking, instrument.PreviewOptions{
		ShowTracking: req.ShowTracking,
		Personalize:  req.Personalize,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, p)
}

// SubmitTemplate instruments the draft and saves it as a template.
//
//	POST /editor/submit
func (h *Handlers) SubmitTemplate(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if !h.validTracking(w, req.Tracking) {
		return
	}

	t, err := h.templates.Submit(r.Context(), template.SubmitRequest{
		Name:     req.Name,
		ParentID: req.ParentID,
		IsDraft:  req.IsDraft,
		Draft:    req.EmailDraft,
		Tracking: req.Tracking,
	})
	switch {
	case errors.Is(err, instrument.ErrEmptyContent), errors.Is(err, template.ErrMissingName):
		httputil.BadRequest(w, err.Error())
		return
	case errors.Is(err, template.ErrNotFound):
		httputil.NotFound(w, "parent template not found")
		return
	case err != nil:
		httputil.InternalError(w, err)
		return
	}

	httputil.Created(w, submitResponse{
		ID:         t.ID,
		Version:    t.Version,
		Subject:    t.Subject,
		Content:    t.Content,
		Type:       t.Type,
		ArchiveKey: t.ArchiveKey,
	})
}

// GetTemplate returns a saved template.
//
//	GET /template/{id}
func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	t, err := h.templates.Get(r.Context(), id)
	if errors.Is(err, template.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, t)
}

func (h *Handlers) validTracking(w http.ResponseWriter, cfg instrument.TrackingConfig) bool {
	err := cfg.Validate()
	if err == nil {
		return true
	}
	var ve *instrument.ValidationError
	if errors.As(err, &ve) {
		httputil.ValidationError(w, err.Error(), map[string]string{"field": ve.Field, "reason": ve.Reason})
		return false
	}
	httputil.BadRequest(w, err.Error())
	return false
}

// GetBlock renders one editor block. Query parameters override the sample
// content.
//
//	GET /editor/blocks/{kind}
func (h *Handlers) GetBlock(w http.ResponseWriter, r *http.Request) {
	kind, err := blocks.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.NotFound(w, err.Error())
		return
	}

	q := r.URL.Query()
	d := blocks.Data{
		CompanyName: q.Get("company_name"),
		LogoURL:     q.Get("logo_url"),
		Headline:    q.Get("headline"),
		Subheadline: q.Get("subheadline"),
		CTAText:     q.Get("cta_text"),
		CTAURL:      q.Get("cta_url"),
	}
	if y, err := strconv.Atoi(q.Get("year")); err == nil {
		d.Year = y
	}

	html, err := h.blocks.Render(kind, d)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.HTML(w, html)
}

// GetTooltips returns the form help catalog, or one entry with ?field=.
//
//	GET /editor/tooltips
func (h *Handlers) GetTooltips(w http.ResponseWriter, r *http.Request) {
	if field := r.URL.Query().Get("field"); field != "" {
		t, ok := tooltips.ForField(field)
		if !ok {
			httputil.NotFound(w, "no tooltip for field "+field)
			return
		}
		httputil.OK(w, t)
		return
	}
	httputil.OK(w, tooltips.All())
}
