//go:build unit

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"marketing-site/internal/auth"
	"marketing-site/internal/config"
	"marketing-site/internal/data"
	"marketing-site/internal/locale"
	"marketing-site/internal/logger"
	"marketing-site/internal/service"
	"marketing-site/internal/session"
	"marketing-site/internal/site"
	"marketing-site/internal/toc"
	"marketing-site/internal/view"
	"marketing-site/web"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePosts struct {
	posts []data.PostSummary
}

var _ service.PostServicer = (*fakePosts)(nil)

func (f *fakePosts) ListPosts(ctx context.Context, locale string) []data.PostSummary {
	return f.posts
}

func (f *fakePosts) ListPostsByCategory(ctx context.Context, locale, category string) []data.PostSummary {
	var out []data.PostSummary
	for _, p := range f.posts {
		if p.Category != nil && *p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakePosts) FeaturedPosts(ctx context.Context, locale string, n int) []data.PostSummary {
	var out []data.PostSummary
	for _, p := range f.posts {
		if p.IsFeatured && len(out) < n {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakePosts) GetPost(ctx context.Context, locale, slug string) (*data.PostSummary, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, service.ErrPostNotFound
}

func (f *fakePosts) Categories(ctx context.Context, locale string) []string {
	return []string{"Operations"}
}

type fakeArticles struct {
	articles map[string]*service.Article
	err      error
}

func (f *fakeArticles) GetArticle(ctx context.Context, locale, slug string) (*service.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.articles[slug]
	if !ok {
		return nil, service.ErrPostNotFound
	}
	return a, nil
}

type fakeLeads struct {
	submitted []*data.Lead
	err       error
}

func (f *fakeLeads) Submit(ctx context.Context, form service.LeadForm, locale string, attr data.Attribution) (*data.Lead, error) {
	if f.err != nil {
		return nil, f.err
	}
	if form.Name == "" {
		return nil, &service.ValidationError{Fields: map[string]string{"name": "is required"}}
	}
	lead := &data.Lead{ID: "lead-1", Name: form.Name, Email: form.Email, Outlets: form.Outlets, Locale: locale, LandingPath: attr.LandingPath}
	f.submitted = append(f.submitted, lead)
	return lead, nil
}

func (f *fakeLeads) Recent(ctx context.Context, limit int) ([]*data.Lead, int, error) {
	return f.submitted, len(f.submitted), nil
}

type fakePurger struct{ calls int }

func (f *fakePurger) Purge(ctx context.Context) (int64, error) {
	f.calls++
	return 7, nil
}

type testApp struct {
	Router   *chi.Mux
	Sessions *memorySession
	Articles *fakeArticles
	Leads    *fakeLeads
	Purger   *fakePurger
}

func strPtr(s string) *string { return &s }

// setupTest wires the router over in-memory fakes, the embedded templates and the
// embedded page copy.
func setupTest(t *testing.T) *testApp {
	t.Helper()
	log := logger.Nop()

	v, err := view.New(web.TemplateFS)
	require.NoError(t, err)
	content, err := site.Load(site.Content, "en")
	require.NoError(t, err)
	resolver, err := locale.NewResolver(config.SiteConfig{
		Locales:       []config.Locale{{Code: "en", Tag: "en"}, {Code: "hk", Tag: "zh-HK"}, {Code: "tw", Tag: "zh-TW"}},
		DefaultLocale: "en",
	})
	require.NoError(t, err)
	enforcer, err := auth.NewMemoryEnforcer()
	require.NoError(t, err)
	auth.SeedDefaultPolicies(enforcer, []string{"ops@example.com"}, log)

	published := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := &fakePosts{posts: []data.PostSummary{
		{ID: "p1", Slug: "menu-engineering", Title: "Menu engineering basics", Summary: "Price for margin.", PublishDate: &published, IsFeatured: true, Category: strPtr("Operations")},
		{ID: "p2", Slug: "qr-ordering", Title: "QR ordering in Hong Kong", Summary: "What guests expect."},
	}}
	articles := &fakeArticles{articles: map[string]*service.Article{
		"menu-engineering": {
			Post:     posts.posts[0],
			Body:     template.HTML(`<h2 id="pricing">Pricing</h2><p>Start with <strong>cost</strong>.</p>`),
			Headings: []toc.Heading{{ID: "pricing", Text: "Pricing", Level: 2}},
		},
		"qr-ordering": {
			Post:       posts.posts[1],
			Body:       template.HTML(`<p>Partial</p>`),
			Incomplete: true,
		},
	}}
	leads := &fakeLeads{}
	purger := &fakePurger{}
	sm := newMemorySession()

	router := NewRouter(Router{
		Log:            log,
		View:           v,
		Sessions:       sm,
		Resolver:       resolver,
		Enforcer:       enforcer,
		Static:         web.Assets(),
		AllowedOrigins: []string{"https://partner.example"},
		Pages:          NewPageHandler(content, posts, resolver, v, log),
		Blog:           NewBlogHandler(posts, articles, v, log),
		Leads:          NewLeadHandler(leads, sm, v, log),
		Auth:           NewAuthHandler(nil, sm, log),
		Admin:          NewAdminHandler(leads, purger, v, log),
		SEO:            NewSeoHandler(posts, resolver.Codes(), "https://tabletap.example/", log),
	})

	return &testApp{Router: router, Sessions: sm, Articles: articles, Leads: leads, Purger: purger}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_StatusCodes(t *testing.T) {
	app := setupTest(t)

	testCases := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"home", "/en/", http.StatusOK},
		{"pricing", "/hk/pricing", http.StatusOK},
		{"pricing falls back to default copy", "/tw/pricing", http.StatusOK},
		{"blog index", "/en/blog", http.StatusOK},
		{"category", "/en/blog/category/Operations", http.StatusOK},
		{"post", "/en/blog/menu-engineering", http.StatusOK},
		{"missing post", "/en/blog/unknown", http.StatusNotFound},
		{"demo form", "/en/demo", http.StatusOK},
		{"demo thanks", "/en/demo?sent=1", http.StatusOK},
		{"unknown locale", "/fr/pricing", http.StatusNotFound},
		{"unknown route", "/en/careers", http.StatusNotFound},
		{"health", "/healthz", http.StatusOK},
		{"stylesheet", "/static/css/site.css", http.StatusOK},
		{"robots", "/robots.txt", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := app.do(httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.wantCode, rr.Code, rr.Body.String())
		})
	}
}

func TestRoutes_RootRedirectsToDetectedLocale(t *testing.T) {
	app := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-HK,zh;q=0.9")
	rr := app.do(req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/hk/", rr.Header().Get("Location"))
}

func TestRoutes_HomeShowsFeaturedPosts(t *testing.T) {
	app := setupTest(t)

	rr := app.do(httptest.NewRequest(http.MethodGet, "/hk/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `lang="zh-HK"`)
	assert.Contains(t, body, "Menu engineering basics")
	assert.NotContains(t, body, "QR ordering in Hong Kong")
	assert.Contains(t, body, `href="/hk/blog/menu-engineering"`)
}

func TestRoutes_Article(t *testing.T) {
	app := setupTest(t)

	rr := app.do(httptest.NewRequest(http.MethodGet, "/en/blog/menu-engineering", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<h2 id="pricing">Pricing</h2>`)
	assert.Contains(t, body, `data-toc-link="pricing" data-toc-level="2"`)
	assert.Contains(t, body, fmt.Sprintf(`data-toc-ratio="%v"`, toc.VisibleRatio))
	assert.Contains(t, body, "/static/js/toc.js")
	assert.Empty(t, rr.Header().Get(HeaderContentIncomplete))

	rr = app.do(httptest.NewRequest(http.MethodGet, "/en/blog/qr-ordering", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Header().Get(HeaderContentIncomplete))
	assert.Contains(t, rr.Body.String(), "<p>Partial</p>")
}

func TestRoutes_ArticleMarkdown(t *testing.T) {
	app := setupTest(t)

	rr := app.do(httptest.NewRequest(http.MethodGet, "/en/blog/menu-engineering.md", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "# Menu engineering basics\n\n> Price for margin.\n\n"), body)
	assert.Contains(t, body, "## Pricing")
	assert.Contains(t, body, "**cost**")
}

func TestRoutes_ArticleUpstreamFailure(t *testing.T) {
	app := setupTest(t)
	app.Articles.err = errors.New("notion unavailable")

	rr := app.do(httptest.NewRequest(http.MethodGet, "/en/blog/menu-engineering", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "temporarily unavailable")
}

func TestRoutes_DemoSubmit(t *testing.T) {
	app := setupTest(t)

	// First visit records the landing page.
	app.do(httptest.NewRequest(http.MethodGet, "/en/pricing?utm_source=google", nil))

	form := url.Values{"name": {"Mei"}, "email": {"mei@example.com"}, "company": {"Dim Sum Co"}, "outlets": {"4"}}
	req := httptest.NewRequest(http.MethodPost, "/en/demo", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := app.do(req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/en/demo?sent=1", rr.Header().Get("Location"))
	require.Len(t, app.Leads.submitted, 1)
	lead := app.Leads.submitted[0]
	assert.Equal(t, 4, lead.Outlets)
	assert.Equal(t, "en", lead.Locale)
	assert.Equal(t, "/en/pricing", lead.LandingPath)
}

func TestRoutes_DemoSubmitInvalid(t *testing.T) {
	app := setupTest(t)

	testCases := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{"bad outlets", url.Values{"name": {"Mei"}, "outlets": {"many"}}, "must be a whole number"},
		{"rejected by service", url.Values{"name": {""}}, "is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/en/demo", strings.NewReader(tc.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := app.do(req)

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantMsg)
		})
	}
	assert.Empty(t, app.Leads.submitted)
}

func TestRoutes_LeadAPI(t *testing.T) {
	app := setupTest(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "https://partner.example")
		return app.do(req)
	}

	rr := post(`{"name":"Mei","email":"mei@example.com","company":"Dim Sum Co","locale":"hk"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "https://partner.example", rr.Header().Get("Access-Control-Allow-Origin"))
	var created map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "lead-1", created["id"])
	assert.Equal(t, "hk", app.Leads.submitted[0].Locale)

	rr = post(`{"name":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"is required"`)

	rr = post(`{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoutes_LeadAPIPreflight(t *testing.T) {
	app := setupTest(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://partner.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := app.do(req)

	assert.Equal(t, "https://partner.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = app.do(req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_Admin(t *testing.T) {
	app := setupTest(t)

	rr := app.do(httptest.NewRequest(http.MethodGet, "/admin/leads", nil))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/auth/login", rr.Header().Get("Location"))

	app.Sessions.Put(context.Background(), session.KeySubject, "guest@example.com")
	rr = app.do(httptest.NewRequest(http.MethodGet, "/admin/leads", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	app.Sessions.Put(context.Background(), session.KeySubject, "ops@example.com")
	rr = app.do(httptest.NewRequest(http.MethodGet, "/admin/leads", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No leads yet.")
	assert.Contains(t, rr.Body.String(), "Signed in as ops@example.com")

	rr = app.do(httptest.NewRequest(http.MethodPost, "/admin/cache/purge", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/leads?purged=7", rr.Header().Get("Location"))
	assert.Equal(t, 1, app.Purger.calls)

	rr = app.do(httptest.NewRequest(http.MethodGet, "/admin/leads?purged=7", nil))
	assert.Contains(t, rr.Body.String(), "Removed 7 cached entries.")
}

func TestRoutes_Sitemap(t *testing.T) {
	app := setupTest(t)

	rr := app.do(httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<loc>https://tabletap.example/hk/pricing</loc>")
	assert.Contains(t, body, "<loc>https://tabletap.example/tw/blog/menu-engineering</loc>")
	assert.Contains(t, body, "<lastmod>2025-03-01</lastmod>")

	rr = app.do(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Contains(t, rr.Body.String(), "Sitemap: https://tabletap.example/sitemap.xml")
	assert.Contains(t, rr.Body.String(), "Disallow: /admin/")
}
