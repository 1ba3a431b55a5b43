package render

import (
	"fmt"
	"html/template"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Markdown converts rendered article HTML to Markdown for plain-text export.
func Markdown(body template.HTML) (string, error) {
	md, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to convert article to markdown: %w", err)
	}
	return md, nil
}
