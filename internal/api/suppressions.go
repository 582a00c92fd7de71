package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
	"github.com/ignite/campaign-studio/internal/service/suppression"
)

// ListSuppressions pages through the suppression list.
//
//	GET /suppressions?reason=&limit=&offset=
func (h *Handlers) ListSuppressions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := suppression.ListFilter{Reason: q.Get("reason")}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))

	items, total, err := h.suppressions.List(r.Context(), f)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if items == nil {
		items = []domain.Suppression{}
	}
	httputil.OK(w, map[string]any{"items": items, "total": total})
}

// AddSuppression suppresses an address by hand.
//
//	POST /suppressions
func (h *Handlers) AddSuppression(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	err := h.suppressions.Suppress(r.Context(), req.Email, domain.ReasonManual, domain.SourceManual, nil)
	if err != nil {
		h.suppressionError(w, err)
		return
	}
	httputil.Created(w, map[string]string{"status": "suppressed"})
}

// RemoveSuppression lifts a suppression.
//
//	DELETE /suppressions/{email}
func (h *Handlers) RemoveSuppression(w http.ResponseWriter, r *http.Request) {
	if err := h.suppressions.Remove(r.Context(), chi.URLParam(r, "email")); err != nil {
		h.suppressionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) suppressionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, suppression.ErrInvalidEmail):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, suppression.ErrNotFound):
		httputil.NotFound(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
