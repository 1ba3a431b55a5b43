package handler

import (
	"errors"
	"io/fs"
	"marketing-site/internal/locale"
	"marketing-site/internal/logger"
	"marketing-site/internal/middleware"
	"marketing-site/internal/session"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router bundles everything NewRouter wires together.
type Router struct {
	Log            logger.Logger
	View           middleware.Renderer
	Sessions       session.Manager
	Resolver       *locale.Resolver
	Enforcer       casbin.IEnforcer
	Static         fs.FS
	AllowedOrigins []string

	Pages *PageHandler
	Blog  *BlogHandler
	Leads *LeadHandler
	Auth  *AuthHandler
	Admin *AdminHandler
	SEO   *SeoHandler
}

// NewRouter creates and configures a new chi router.
func NewRouter(rt Router) *chi.Mux {
	r := chi.NewRouter()
	handle := middleware.Error(rt.Log, rt.View)
	notFound := handle(func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		return &middleware.AppError{Error: errors.New("no route"), Message: "Page not found", Code: http.StatusNotFound}
	})

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(rt.Sessions.LoadAndSave)
	r.Use(middleware.Settings(rt.Resolver, rt.Sessions))

	r.NotFound(notFound.ServeHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(rt.Static))))
	r.Get("/robots.txt", rt.SEO.robotsHandler)
	r.Get("/sitemap.xml", rt.SEO.sitemapHandler)
	r.Get("/", rt.Pages.rootHandler)

	// Staff sign-in
	r.Get("/auth/login", rt.Auth.handleLogin)
	r.Get("/auth/callback", rt.Auth.handleCallback)
	r.Get("/auth/logout", rt.Auth.handleLogout)

	// Lead capture for forms embedded on other origins.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.Use(middleware.Attribution(rt.Sessions))
		r.Post("/api/leads", rt.Leads.apiSubmitHandler)
		r.Options("/api/leads", func(w http.ResponseWriter, r *http.Request) {})
	})

	// Protected routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authorizer(rt.Enforcer, rt.Sessions))
		r.Method(http.MethodGet, "/leads", handle(rt.Admin.leadsHandler))
		r.Method(http.MethodPost, "/cache/purge", handle(rt.Admin.purgeHandler))
	})

	// Localized pages
	r.Route("/{locale}", func(r chi.Router) {
		r.Use(middleware.Locale(rt.Resolver, notFound))
		r.Use(middleware.Attribution(rt.Sessions))

		r.Method(http.MethodGet, "/", handle(rt.Pages.homeHandler))
		r.Method(http.MethodGet, "/pricing", handle(rt.Pages.pricingHandler))
		r.Method(http.MethodGet, "/blog", handle(rt.Blog.listHandler))
		r.Method(http.MethodGet, "/blog/category/{category}", handle(rt.Blog.categoryHandler))
		r.Method(http.MethodGet, "/blog/{slug}", handle(rt.Blog.postHandler))
		r.Method(http.MethodGet, "/demo", handle(rt.Leads.demoHandler))
		r.Method(http.MethodPost, "/demo", handle(rt.Leads.submitHandler))
	})

	return r
}
