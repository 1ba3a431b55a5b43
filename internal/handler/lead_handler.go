package handler

import (
	"context"
	"encoding/json"
	"errors"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"marketing-site/internal/middleware"
	"marketing-site/internal/service"
	"marketing-site/internal/session"
	"net/http"
	"strconv"
	"strings"
)

// maxLeadBody bounds the size of a JSON demo request.
const maxLeadBody = 64 << 10

// LeadSubmitter validates and stores demo requests.
type LeadSubmitter interface {
	Submit(ctx context.Context, form service.LeadForm, locale string, attr data.Attribution) (*data.Lead, error)
}

// LeadHandler serves the demo request form and its JSON counterpart.
type LeadHandler struct {
	leads    LeadSubmitter
	sessions session.Manager
	view     middleware.Renderer
	log      logger.Logger
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leads LeadSubmitter, sm session.Manager, v middleware.Renderer, log logger.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, sessions: sm, view: v, log: log}
}

// demoHandler shows the empty form, or the thank-you page after a successful submit.
func (h *LeadHandler) demoHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if r.URL.Query().Get("sent") == "1" {
		return h.render(w, r, http.StatusOK, "demo_thanks.html", nil)
	}
	return h.render(w, r, http.StatusOK, "demo.html", map[string]interface{}{
		"Form":   service.LeadForm{},
		"Errors": map[string]string{},
	})
}

// submitHandler stores a demo request posted from the form and redirects, or shows
// the form again with the rejected fields.
func (h *LeadHandler) submitHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form submission", Code: http.StatusBadRequest}
	}

	loc := middleware.CurrentLocale(r)
	form := service.LeadForm{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Company: r.PostForm.Get("company"),
		Phone:   r.PostForm.Get("phone"),
		Message: r.PostForm.Get("message"),
	}
	fieldErrs := map[string]string{}
	if raw := strings.TrimSpace(r.PostForm.Get("outlets")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrs["outlets"] = "must be a whole number"
		}
		form.Outlets = n
	}

	if len(fieldErrs) == 0 {
		_, err := h.leads.Submit(r.Context(), form, loc, middleware.GetAttribution(r, h.sessions))
		if err == nil {
			http.Redirect(w, r, "/"+loc+"/demo?sent=1", http.StatusSeeOther)
			return nil
		}
		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			return &middleware.AppError{Error: err, Message: "We could not save your request, please try again", Code: http.StatusInternalServerError}
		}
		fieldErrs = verr.Fields
	}

	return h.render(w, r, http.StatusUnprocessableEntity, "demo.html", map[string]interface{}{
		"Form":   form,
		"Errors": fieldErrs,
	})
}

// leadRequest is the JSON body accepted by the lead API.
type leadRequest struct {
	service.LeadForm
	Locale string `json:"locale"`
}

// apiSubmitHandler accepts a demo request as JSON, for embedded forms on partner sites.
func (h *LeadHandler) apiSubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeadBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return
	}

	loc := req.Locale
	if loc == "" {
		loc = middleware.CurrentLocale(r)
	}

	lead, err := h.leads.Submit(r.Context(), req.LeadForm, loc, middleware.GetAttribution(r, h.sessions))
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": verr.Fields})
			return
		}
		h.log.Error(err, "Failed to store lead from API")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "could not save request"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": lead.ID})
}

func (h *LeadHandler) render(w http.ResponseWriter, r *http.Request, code int, name string, data map[string]interface{}) *middleware.AppError {
	var buf strings.Builder
	if err := h.view.Render(&buf, r, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(buf.String()))
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
