package view

import "context"

type settingsKey struct{}

// Settings are the request-scoped values every template can read.
type Settings struct {
	Locale  string   // URL locale code, e.g. "hk"
	LangTag string   // BCP 47 tag for the html lang attribute
	Locales []string // all locale codes, for the language switcher
	Path    string   // request path without the locale prefix, e.g. "/pricing"
	User    string   // signed-in staff identity, empty for visitors
}

// WithSettings stores s in ctx.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// SettingsFrom returns the settings stored in ctx, or the zero value.
func SettingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)
	return s
}
