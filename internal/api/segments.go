package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
	"github.com/ignite/campaign-studio/internal/service/segment"
)

// maxImportBytes bounds a pasted contact list.
const maxImportBytes = 5 << 20

type segmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListSegments lists every segment with its contact count.
//
//	GET /segments
func (h *Handlers) ListSegments(w http.ResponseWriter, r *http.Request) {
	list, err := h.segments.List(r.Context())
	if err != nil {
		h.segmentError(w, err)
		return
	}
	httputil.OK(w, map[string][]domain.Segment{"segments": list})
}

// CreateSegment adds a segment.
//
//	POST /segments
func (h *Handlers) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	s, err := h.segments.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		h.segmentError(w, err)
		return
	}
	httputil.Created(w, s)
}

// GetSegment returns one segment.
//
//	GET /segments/{id}
func (h *Handlers) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	s, err := h.segments.Get(r.Context(), id)
	if err != nil {
		h.segmentError(w, err)
		return
	}
	httputil.OK(w, s)
}

// UpdateSegment renames a segment.
//
//	PUT /segments/{id}
func (h *Handlers) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req segmentRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	s, err := h.segments.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		h.segmentError(w, err)
		return
	}
	httputil.OK(w, s)
}

// DeleteSegment removes a segment and its contacts.
//
//	DELETE /segments/{id}
func (h *Handlers) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.segments.Delete(r.Context(), id); err != nil {
		h.segmentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListContacts lists a segment's contacts.
//
//	GET /segments/{id}/contacts
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	cs, err := h.segments.Contacts(r.Context(), id)
	if err != nil {
		h.segmentError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"contacts": cs, "total": len(cs)})
}

// AddContact adds one contact.
//
//	POST /segments/{id}/contacts
func (h *Handlers) AddContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	c, err := h.segments.AddContact(r.Context(), id, req.Email, req.Name)
	if err != nil {
		h.segmentError(w, err)
		return
	}
	httputil.Created(w, c)
}

// ImportContacts imports "email,name" lines. The body is either JSON
// {"contacts": "..."} or the raw text itself.
//
//	POST /segments/{id}/contacts/import
func (h *Handlers) ImportContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var text string
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		var req struct {
			Contacts string `json:"contacts"`
		}
		if !httputil.Decode(w, r, &req) {
			return
		}
		text = req.Contacts
	} else {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
		if err != nil {
			httputil.BadRequest(w, "contact list too large")
			return
		}
		text = string(body)
	}
	if strings.TrimSpace(text) == "" {
		httputil.BadRequest(w, "contacts are required")
		return
	}

	res, err := h.segments.ImportContacts(r.Context(), id, text)
	if errors.Is(err, segment.ErrNoValidContacts) {
		httputil.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   err.Error(),
			"added":   res.Added,
			"skipped": res.Skipped,
		})
		return
	}
	if err != nil {
		h.segmentError(w, err)
		return
	}
	h.log.Info("contacts imported", "segment_id", id, "added", res.Added, "skipped", res.Skipped)
	httputil.OK(w, res)
}

// DeleteContact removes a contact from a segment.
//
//	DELETE /segments/{id}/contacts/{contactID}
func (h *Handlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	contactID, ok := idParam(w, r, "contactID")
	if !ok {
		return
	}
	if err := h.segments.DeleteContact(r.Context(), id, contactID); err != nil {
		h.segmentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) segmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, segment.ErrNotFound), errors.Is(err, segment.ErrContactNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, segment.ErrInUse):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, segment.ErrMissingName), errors.Is(err, segment.ErrNameTooLong),
		errors.Is(err, segment.ErrDescTooLong), errors.Is(err, segment.ErrInvalidEmail),
		errors.Is(err, segment.ErrContactName):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
