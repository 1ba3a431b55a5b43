package handler

import (
	"encoding/xml"
	"fmt"
	"marketing-site/internal/logger"
	"marketing-site/internal/service"
	"net/http"
	"strings"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	posts   service.PostServicer
	locales []string
	baseURL string
	log     logger.Logger
}

// NewSeoHandler creates a new SeoHandler.
func NewSeoHandler(posts service.PostServicer, locales []string, baseURL string, log logger.Logger) *SeoHandler {
	return &SeoHandler{
		posts:   posts,
		locales: locales,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
	}
}

// robotsHandler serves robots.txt. The admin area is never indexed.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

// staticPaths are the non-blog pages present in every locale.
var staticPaths = []string{"/", "/pricing", "/blog", "/demo"}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists the static pages and every visible post of every locale.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	sitemap := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, loc := range h.locales {
		for _, p := range staticPaths {
			sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + "/" + loc + p})
		}
		for _, post := range h.posts.ListPosts(r.Context(), loc) {
			u := sitemapURL{Loc: h.baseURL + "/" + loc + "/blog/" + post.Slug}
			if post.PublishDate != nil {
				u.LastMod = post.PublishDate.Format(sitemapDateFormat)
			}
			sitemap.URLs = append(sitemap.URLs, u)
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		h.log.Error(err, "Failed to encode sitemap")
	}
}
