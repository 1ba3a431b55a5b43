package middleware

import (
	"context"
	"marketing-site/internal/auth"
	"marketing-site/internal/session"
	"net/http"

	"github.com/casbin/casbin/v2"
)

type contextKey string

const userContextKey contextKey = "user"

// UserInfo represents the essential user information stored in the session.
type UserInfo struct {
	Subject string
}

// Anonymous reports whether the request carries no signed-in identity.
func (u *UserInfo) Anonymous() bool {
	return u.Subject == auth.RoleAnonymous
}

// Authorizer creates a new middleware for authorization.
// It checks the user's permissions using Casbin based on session data. Anonymous
// visitors are sent to the login page; signed-in users without access get a 403.
func Authorizer(e casbin.IEnforcer, sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), session.KeySubject)
			if subject == "" {
				subject = auth.RoleAnonymous
			}

			userInfo := &UserInfo{Subject: subject}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			allowed, err := e.Enforce(subject, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if userInfo.Anonymous() {
					http.Redirect(w, r, "/auth/login", http.StatusFound)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	return &UserInfo{Subject: auth.RoleAnonymous}
}
