// Package locale maps visitors to one of the site's locales.
package locale

import (
	"fmt"
	"marketing-site/internal/config"
	"net/http"
	"time"

	"golang.org/x/text/language"
)

// CookieName is the cookie that remembers a visitor's locale choice.
const CookieName = "locale"

// Resolver matches requests against the configured locales.
type Resolver struct {
	codes       []string // aligned with the matcher's supported tags, default first
	tags        map[string]language.Tag
	matcher     language.Matcher
	defaultCode string
}

// NewResolver builds a resolver from the site configuration. The default locale must
// be one of the configured locales.
func NewResolver(cfg config.SiteConfig) (*Resolver, error) {
	r := &Resolver{tags: map[string]language.Tag{}, defaultCode: cfg.DefaultLocale}

	var supported []language.Tag
	var ordered []config.Locale
	for _, l := range cfg.Locales {
		if l.Code == cfg.DefaultLocale {
			ordered = append([]config.Locale{l}, ordered...)
			continue
		}
		ordered = append(ordered, l)
	}
	if len(ordered) == 0 || ordered[0].Code != cfg.DefaultLocale {
		return nil, fmt.Errorf("default locale %q is not configured", cfg.DefaultLocale)
	}

	for _, l := range ordered {
		tag, err := language.Parse(l.Tag)
		if err != nil {
			return nil, fmt.Errorf("locale %s: invalid language tag %q: %w", l.Code, l.Tag, err)
		}
		r.codes = append(r.codes, l.Code)
		r.tags[l.Code] = tag
		supported = append(supported, tag)
	}
	r.matcher = language.NewMatcher(supported)
	return r, nil
}

// Supported reports whether code is a configured locale.
func (r *Resolver) Supported(code string) bool {
	_, ok := r.tags[code]
	return ok
}

// Default returns the default locale code.
func (r *Resolver) Default() string {
	return r.defaultCode
}

// Codes returns the configured locale codes, default first.
func (r *Resolver) Codes() []string {
	return append([]string(nil), r.codes...)
}

// Tag returns the BCP 47 tag for code, used for the lang attribute and hreflang links.
func (r *Resolver) Tag(code string) string {
	if tag, ok := r.tags[code]; ok {
		return tag.String()
	}
	return code
}

// Detect picks the locale for a request: a remembered choice first, then the best
// Accept-Language match, then the default.
func (r *Resolver) Detect(req *http.Request) string {
	if c, err := req.Cookie(CookieName); err == nil && r.Supported(c.Value) {
		return c.Value
	}

	prefs, _, err := language.ParseAcceptLanguage(req.Header.Get("Accept-Language"))
	if err != nil || len(prefs) == 0 {
		return r.defaultCode
	}
	_, idx, conf := r.matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(r.codes) {
		return r.defaultCode
	}
	return r.codes[idx]
}

// Remember stores code in the locale cookie for a year.
func (r *Resolver) Remember(w http.ResponseWriter, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
