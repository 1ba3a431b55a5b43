package render

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/microcosm-cc/bluemonday"
)

var (
	blockTypePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	anchorPattern    = regexp.MustCompile(`^\S+$`)
)

// Policy returns the sanitizing policy for article HTML: the UGC policy plus the
// attributes and elements the renderer emits.
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(anchorPattern).OnElements("h1", "h2", "h3")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	p.AllowDataAttributes()
	p.AllowAttrs("data-block-type").Matching(blockTypePattern).OnElements("div")
	p.AllowElements("details", "summary", "figure", "figcaption", "aside")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
	return p
}

// CodeLanguage maps a code block's language tag to the canonical id of the matching
// syntax lexer, so "C++" and "cpp" produce the same class. Unknown tags are kept,
// lowercased with spaces replaced by hyphens.
func CodeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return ""
	}
	if l := lexers.Get(lang); l != nil {
		cfg := l.Config()
		if len(cfg.Aliases) > 0 {
			return strings.ToLower(cfg.Aliases[0])
		}
		return strings.ToLower(strings.Join(strings.Fields(cfg.Name), "-"))
	}
	return strings.Join(strings.Fields(lang), "-")
}
