// Package site loads the localized copy of the landing and pricing pages.
package site

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed content
var contentFS embed.FS

// Content is the embedded page copy, laid out as content/{locale}/{page}.json.
var Content fs.FS = contentFS

// ErrPageNotFound is returned when neither the locale nor the fallback has the page.
var ErrPageNotFound = errors.New("page not found")

// Page is the copy of one static page.
type Page struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Hero        Hero      `json:"hero"`
	Sections    []Section `json:"sections"`
	Plans       []Plan    `json:"plans,omitempty"`
}

// Hero is the banner at the top of a page.
type Hero struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	CTA        string `json:"cta"`
}

// Section is a block of copy. Body is Markdown; HTML is the rendered body.
type Section struct {
	ID      string        `json:"id"`
	Heading string        `json:"heading"`
	Body    string        `json:"body"`
	HTML    template.HTML `json:"-"`
}

// Plan is one pricing tier.
type Plan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
	Highlighted bool     `json:"highlighted"`
}

// Store holds every page of every locale, rendered at load time.
type Store struct {
	pages    map[string]*Page // keyed by "locale/page"
	fallback string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Load reads all pages from fsys. fallback is the locale used when a locale lacks a page.
func Load(fsys fs.FS, fallback string) (*Store, error) {
	s := &Store{pages: map[string]*Page{}, fallback: fallback}
	sanitizer := bluemonday.UGCPolicy()

	files, err := fs.Glob(fsys, "content/*/*.json")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		var p Page
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		for i := range p.Sections {
			var buf bytes.Buffer
			if err := markdown.Convert([]byte(p.Sections[i].Body), &buf); err != nil {
				return nil, fmt.Errorf("failed to render %s section %d: %w", file, i, err)
			}
			p.Sections[i].HTML = template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
		}

		locale := path.Base(path.Dir(file))
		name := strings.TrimSuffix(path.Base(file), ".json")
		s.pages[locale+"/"+name] = &p
	}
	return s, nil
}

// Page returns the named page for locale, or the fallback locale's copy.
func (s *Store) Page(locale, name string) (*Page, error) {
	if p, ok := s.pages[locale+"/"+name]; ok {
		return p, nil
	}
	if p, ok := s.pages[s.fallback+"/"+name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%s/%s: %w", locale, name, ErrPageNotFound)
}
