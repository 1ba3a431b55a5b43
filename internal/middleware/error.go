package middleware

import (
	"fmt"
	"io"
	"marketing-site/internal/logger"
	"marketing-site/internal/view"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Renderer renders a named page template.
type Renderer interface {
	Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error
}

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, v Renderer) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, r, log, v, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if appErr := next(w, r); appErr != nil {
				l := log.With(map[string]interface{}{"path": r.URL.Path, "status": appErr.Code})
				if appErr.Code >= http.StatusInternalServerError {
					l.Error(appErr.Error, appErr.Message)
				} else {
					l.Debug(appErr.Message)
				}
				renderError(w, r, log, v, appErr.Code, appErr.Message)
			}
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, log logger.Logger, v Renderer, code int, text string) {
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": text,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := v.Render(w, r, "error.html", data); err != nil {
		log.Error(err, "Failed to render error page")
	}
}

var _ Renderer = (*view.View)(nil)
