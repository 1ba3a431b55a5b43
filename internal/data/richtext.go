package data

import "strings"

// Annotations are the inline styles Notion attaches to a rich-text span.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

// RichText is a run of text with its own styling and optional link target.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Annotations Annotations `json:"annotations"`
	Href        string      `json:"href,omitempty"`
}

// PlainText concatenates the plain text of spans in order.
func PlainText(spans []RichText) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.PlainText)
	}
	return b.String()
}
