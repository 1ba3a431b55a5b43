package main

import (
	"context"
	"errors"
	"fmt"
	"marketing-site/internal/app"
	"marketing-site/internal/auth"
	"marketing-site/internal/config"
	"marketing-site/internal/data"
	"marketing-site/internal/handler"
	"marketing-site/internal/logger"
	"marketing-site/internal/service"
	"marketing-site/internal/session"
	"marketing-site/internal/site"
	"marketing-site/internal/view"
	"marketing-site/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := session.New(db, cfg.DB.Driver, time.Duration(cfg.Session.Lifetime)*time.Hour, cfg.Server.TLS.Enabled)

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	var authenticator *auth.Authenticator
	if cfg.OIDC.Enabled() {
		authenticator, err = auth.NewAuthenticator(context.Background(), cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
	} else {
		log.Warn("OIDC is not configured; staff sign-in is disabled")
	}
	enforcer, err := auth.NewEnforcer(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, cfg.Auth.Admins, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	pages, err := site.Load(site.Content, cfg.Site.FallbackLocale)
	if err != nil {
		log.Fatal(err, "Failed to load page content")
	}
	log.Info("View templates initialized.")

	// --- Content Pipeline ---
	log.Info("Initializing content pipeline...")
	content, err := app.NewContent(cfg, log)
	if err != nil {
		log.Fatal(err, "Failed to initialize content pipeline")
	}
	defer content.Close()
	var purger handler.CachePurger
	if content.Cache != nil {
		purger = content.Cache
	}
	log.Info("Content pipeline initialized.")

	// --- Dependency Injection and Handler Initialization ---
	leadService := service.NewLeadService(data.NewSQLLeadRepository(db), log)

	router := handler.NewRouter(handler.Router{
		Log:            log,
		View:           viewService,
		Sessions:       sessionManager,
		Resolver:       content.Resolver,
		Enforcer:       enforcer,
		Static:         web.Assets(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Pages:          handler.NewPageHandler(pages, content.Posts, content.Resolver, viewService, log),
		Blog:           handler.NewBlogHandler(content.Posts, content.Articles, viewService, log),
		Leads:          handler.NewLeadHandler(leadService, sessionManager, viewService, log),
		Auth:           handler.NewAuthHandler(authenticator, sessionManager, log),
		Admin:          handler.NewAdminHandler(leadService, purger, viewService, log),
		SEO:            handler.NewSeoHandler(content.Posts, content.Resolver.Codes(), cfg.Server.BaseURL, log),
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
