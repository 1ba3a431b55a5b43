package middleware

import (
	"marketing-site/internal/locale"
	"marketing-site/internal/session"
	"marketing-site/internal/view"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Settings stores the template settings shared by every page: the locale list, the
// visitor's detected locale and the signed-in identity, if any.
func Settings(resolver *locale.Resolver, sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := resolver.Detect(r)
			s := view.Settings{
				Locale:  code,
				LangTag: resolver.Tag(code),
				Locales: resolver.Codes(),
				Path:    "/",
				User:    sm.GetString(r.Context(), session.KeySubject),
			}
			next.ServeHTTP(w, r.WithContext(view.WithSettings(r.Context(), s)))
		})
	}
}

// Locale validates the {locale} URL segment. Unknown locales are passed to notFound;
// known ones are remembered in the locale cookie and replace the detected locale in
// the template settings.
func Locale(resolver *locale.Resolver, notFound http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := chi.URLParam(r, "locale")
			if !resolver.Supported(code) {
				notFound.ServeHTTP(w, r)
				return
			}

			if c, err := r.Cookie(locale.CookieName); err != nil || c.Value != code {
				resolver.Remember(w, code)
			}

			s := view.SettingsFrom(r.Context())
			s.Locale = code
			s.LangTag = resolver.Tag(code)
			s.Locales = resolver.Codes()
			s.Path = "/" + strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/"+code), "/")
			next.ServeHTTP(w, r.WithContext(view.WithSettings(r.Context(), s)))
		})
	}
}

// CurrentLocale returns the locale of the request, as set by Settings or Locale.
func CurrentLocale(r *http.Request) string {
	return view.SettingsFrom(r.Context()).Locale
}
