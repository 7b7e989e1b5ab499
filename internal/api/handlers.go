package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/domain"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/httputil"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/service/layout"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/store"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/tracking"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/usagereports"
)

// Handlers holds the dependencies for all API endpoints.
type Handlers struct {
	runner   *usagereports.Runner
	layouts  *layout.Service
	meta     store.NewsletterMeta
	rewriter *tracking.Rewriter
}

// NewHandlers creates the API handler set.
func NewHandlers(runner *usagereports.Runner, layouts *layout.Service, meta store.NewsletterMeta, rewriter *tracking.Rewriter) *Handlers {
	return &Handlers{runner: runner, layouts: layouts, meta: meta, rewriter: rewriter}
}

// GetUsageReport returns the most recently generated usage report.
//
//	GET /api/v1/usage-report
func (h *Handlers) GetUsageReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runner.Latest()
	if !ok {
		httputil.NotFound(w, "no usage report generated yet")
		return
	}
	httputil.OK(w, report)
}

// RunUsageReport triggers an immediate report run. Returns 409 when a run
// is already in progress elsewhere.
//
//	POST /api/v1/usage-report/run
func (h *Handlers) RunUsageReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.RunOnce(r.Context())
	if err != nil {
		if errors.Is(err, usagereports.ErrRunInProgress) {
			httputil.Error(w, http.StatusConflict, "a report run is already in progress")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, report)
}

// GetNewsletterClicks returns the tracked click count for a newsletter.
//
//	GET /api/v1/newsletters/{id}/clicks
func (h *Handlers) GetNewsletterClicks(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.BadRequest(w, "invalid newsletter id")
		return
	}

	clicks, err := h.meta.GetClicks(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]int64{"newsletter_id": id, "clicks": clicks})
}

// RewriteNewsletterHTML returns the newsletter HTML with every outbound
// link replaced by its tracking-proxy form. Senders call this right
// before dispatch, once per recipient.
//
//	POST /api/v1/newsletters/{id}/rewrite
func (h *Handlers) RewriteNewsletterHTML(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.BadRequest(w, "invalid newsletter id")
		return
	}

	var input struct {
		HTML  string `json:"html"`
		Email string `json:"email"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}

	httputil.OK(w, map[string]string{
		"html": h.rewriter.RewriteHTML(input.HTML, id, input.Email),
	})
}

// ListLayouts returns all newsletter layouts.
//
//	GET /api/v1/layouts
func (h *Handlers) ListLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := h.layouts.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if layouts == nil {
		layouts = []domain.Layout{}
	}
	httputil.OK(w, layouts)
}

// GetLayout returns a single layout.
//
//	GET /api/v1/layouts/{id}
func (h *Handlers) GetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := h.layouts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			httputil.NotFound(w, "layout not found")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, l)
}

// CreateLayout creates a new layout.
//
//	POST /api/v1/layouts
func (h *Handlers) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var input layout.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}

	l, err := h.layouts.Create(r.Context(), input)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.Created(w, l)
}

// UpdateLayout modifies a layout. Absent fields are left unchanged.
//
//	PUT /api/v1/layouts/{id}
func (h *Handlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title   *string           `json:"title"`
		Content *string           `json:"content"`
		Meta    map[string]string `json:"meta"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}

	id := chi.URLParam(r, "id")
	err := h.layouts.Update(r.Context(), id, layout.UpdateFields{
		Title:   input.Title,
		Content: input.Content,
		Meta:    input.Meta,
	})
	if err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			httputil.NotFound(w, "layout not found")
			return
		}
		httputil.InternalError(w, err)
		return
	}

	l, err := h.layouts.Get(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, l)
}

// DeleteLayout removes a layout.
//
//	DELETE /api/v1/layouts/{id}
func (h *Handlers) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	err := h.layouts.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			httputil.NotFound(w, "layout not found")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.NoContent(w)
}
