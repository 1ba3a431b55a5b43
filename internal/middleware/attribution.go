package middleware

import (
	"marketing-site/internal/data"
	"marketing-site/internal/session"
	"net/http"
	"net/url"
	"strings"
)

// Attribution records the campaign parameters, referrer and landing path of a
// visitor's first page view in the session. Later views never overwrite them.
func Attribution(sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && !sm.Exists(r.Context(), session.KeyLandingPath) {
				q := r.URL.Query()
				sm.Put(r.Context(), session.KeyLandingPath, r.URL.Path)
				sm.Put(r.Context(), session.KeyUTMSource, q.Get("utm_source"))
				sm.Put(r.Context(), session.KeyUTMMedium, q.Get("utm_medium"))
				sm.Put(r.Context(), session.KeyUTMCampaign, q.Get("utm_campaign"))
				sm.Put(r.Context(), session.KeyReferrer, externalReferrer(r))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetAttribution reads the attribution captured for the session.
func GetAttribution(r *http.Request, sm session.Manager) data.Attribution {
	ctx := r.Context()
	return data.Attribution{
		UTMSource:   sm.GetString(ctx, session.KeyUTMSource),
		UTMMedium:   sm.GetString(ctx, session.KeyUTMMedium),
		UTMCampaign: sm.GetString(ctx, session.KeyUTMCampaign),
		Referrer:    sm.GetString(ctx, session.KeyReferrer),
		LandingPath: sm.GetString(ctx, session.KeyLandingPath),
	}
}

// externalReferrer returns the Referer header unless it points at this site.
func externalReferrer(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || strings.EqualFold(u.Host, r.Host) {
		return ""
	}
	return ref
}
