package handler

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"marketing-site/internal/auth"
	"marketing-site/internal/logger"
	"marketing-site/internal/session"
	"net/http"
	"time"
)

const stateCookie = "oidc_state"

// AuthHandler holds the dependencies for the staff sign-in handlers.
type AuthHandler struct {
	auth     *auth.Authenticator
	sessions session.Manager
	log      logger.Logger
}

// NewAuthHandler creates a new AuthHandler. a may be nil when no identity provider is
// configured; only logout works then.
func NewAuthHandler(a *auth.Authenticator, sm session.Manager, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: a, sessions: sm, log: log}
}

// handleLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		http.Error(w, "Sign-in is not configured", http.StatusNotFound)
		return
	}
	state, err := randString(16)
	if err != nil {
		h.log.Error(err, "Failed to generate OIDC state")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// handleCallback verifies the provider's response and signs the staff member in.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		http.Error(w, "Sign-in is not configured", http.StatusNotFound)
		return
	}
	c, err := r.Cookie(stateCookie)
	if err != nil {
		http.Error(w, "state cookie not found", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != c.Value {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth", MaxAge: -1})

	claims, err := h.auth.Login(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.log.Error(err, "OIDC login failed")
		http.Error(w, "Failed to sign in", http.StatusUnauthorized)
		return
	}

	// New privilege level, new session token.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.log.Error(err, "Failed to renew session token")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(r.Context(), session.KeySubject, claims.Identity())
	h.log.With(map[string]interface{}{"user": claims.Identity()}).Info("Staff signed in")

	http.Redirect(w, r, "/admin/leads", http.StatusFound)
}

// handleLogout clears the session and returns to the site root.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.log.Error(err, "Failed to destroy session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
