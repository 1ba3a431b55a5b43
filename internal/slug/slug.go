// Package slug derives URL-safe anchor ids from heading text.
//
// Make is the only implementation: the block renderer uses it for heading element ids
// and the table of contents uses it for link targets, so the two always agree.
package slug

import "strings"

// Fallback is returned when text reduces to nothing.
const Fallback = "section"

// stripped is the punctuation removed from slugs.
const stripped = `&/#,+()$~%.'":*?<>{}`

// Make lowercases and trims s, joins whitespace-separated words with single hyphens,
// drops punctuation and collapses repeated hyphens. Make(Make(s)) == Make(s).
func Make(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "-")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripped, r) {
			return -1
		}
		return r
	}, s)

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}
