package handler

import (
	"context"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"marketing-site/internal/middleware"
	"net/http"
	"strconv"
)

const recentLeads = 100

// LeadLister returns the latest leads and the total count.
type LeadLister interface {
	Recent(ctx context.Context, limit int) ([]*data.Lead, int, error)
}

// CachePurger drops every cached content response.
type CachePurger interface {
	Purge(ctx context.Context) (int64, error)
}

// AdminHandler serves the staff-only pages.
type AdminHandler struct {
	leads LeadLister
	cache CachePurger
	view  middleware.Renderer
	log   logger.Logger
}

// NewAdminHandler creates a new AdminHandler. cache may be nil when caching is off.
func NewAdminHandler(leads LeadLister, cache CachePurger, v middleware.Renderer, log logger.Logger) *AdminHandler {
	return &AdminHandler{leads: leads, cache: cache, view: v, log: log}
}

// leadsHandler lists the latest demo requests.
func (h *AdminHandler) leadsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	leads, total, err := h.leads.Recent(r.Context(), recentLeads)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load leads", Code: http.StatusInternalServerError}
	}

	purged, _ := strconv.ParseInt(r.URL.Query().Get("purged"), 10, 64)
	data := map[string]interface{}{
		"Leads":  leads,
		"Total":  total,
		"Purged": purged,
	}
	if err := h.view.Render(w, r, "admin_leads.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render leads", Code: http.StatusInternalServerError}
	}
	return nil
}

// purgeHandler empties the content cache so edits in the CMS show up immediately.
func (h *AdminHandler) purgeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var n int64
	if h.cache != nil {
		var err error
		n, err = h.cache.Purge(r.Context())
		if err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to purge cache", Code: http.StatusInternalServerError}
		}
	}
	h.log.With(map[string]interface{}{
		"entries": n,
		"user":    middleware.GetUserInfo(r.Context()).Subject,
	}).Info("Content cache purged")

	http.Redirect(w, r, "/admin/leads?purged="+strconv.FormatInt(n, 10), http.StatusSeeOther)
	return nil
}
