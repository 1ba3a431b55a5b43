// Package web embeds the page templates and the browser assets into the binary.
package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed templates
	templates embed.FS

	//go:embed static
	static embed.FS
)

// TemplateFS holds templates/layouts and templates/pages, as view.New expects.
var TemplateFS fs.FS = templates

// Assets returns the static files rooted at the static directory, for serving
// under /static/.
func Assets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// Only possible if the embed directive above is removed.
		panic(err)
	}
	return sub
}
