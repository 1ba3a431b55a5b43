package handler

import (
	"errors"
	"marketing-site/internal/locale"
	"marketing-site/internal/logger"
	"marketing-site/internal/middleware"
	"marketing-site/internal/service"
	"marketing-site/internal/site"
	"net/http"
)

// featuredCount is how many featured posts the landing page shows.
const featuredCount = 3

// SiteContent provides the localized copy of static pages.
type SiteContent interface {
	Page(locale, name string) (*site.Page, error)
}

// PageHandler serves the landing and pricing pages.
type PageHandler struct {
	content  SiteContent
	posts    service.PostServicer
	resolver *locale.Resolver
	view     middleware.Renderer
	log      logger.Logger
}

// NewPageHandler creates a new PageHandler with the given dependencies.
func NewPageHandler(content SiteContent, posts service.PostServicer, resolver *locale.Resolver, v middleware.Renderer, log logger.Logger) *PageHandler {
	return &PageHandler{
		content:  content,
		posts:    posts,
		resolver: resolver,
		view:     v,
		log:      log,
	}
}

// rootHandler redirects to the visitor's locale.
func (h *PageHandler) rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+h.resolver.Detect(r)+"/", http.StatusFound)
}

// homeHandler renders the landing page with the latest featured posts.
func (h *PageHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	loc := middleware.CurrentLocale(r)
	page, appErr := h.page(loc, "home")
	if appErr != nil {
		return appErr
	}

	data := map[string]interface{}{
		"Page":        page,
		"Description": page.Description,
		"Featured":    h.posts.FeaturedPosts(r.Context(), loc, featuredCount),
	}
	if err := h.view.Render(w, r, "home.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render home page", Code: http.StatusInternalServerError}
	}
	return nil
}

// pricingHandler renders the pricing page.
func (h *PageHandler) pricingHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, appErr := h.page(middleware.CurrentLocale(r), "pricing")
	if appErr != nil {
		return appErr
	}

	data := map[string]interface{}{
		"Page":        page,
		"Description": page.Description,
	}
	if err := h.view.Render(w, r, "pricing.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render pricing page", Code: http.StatusInternalServerError}
	}
	return nil
}

func (h *PageHandler) page(loc, name string) (*site.Page, *middleware.AppError) {
	page, err := h.content.Page(loc, name)
	if err != nil {
		if errors.Is(err, site.ErrPageNotFound) {
			return nil, &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
		}
		return nil, &middleware.AppError{Error: err, Message: "Failed to load page", Code: http.StatusInternalServerError}
	}
	return page, nil
}
