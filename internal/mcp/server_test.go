//go:build unit

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"marketing-site/internal/config"
	"marketing-site/internal/data"
	"marketing-site/internal/locale"
	"marketing-site/internal/logger"
	"marketing-site/internal/service"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPosts struct {
	byLocale      map[string][]data.PostSummary
	listCalls     int
	categoryCalls int
}

var _ service.PostServicer = (*stubPosts)(nil)

func (s *stubPosts) ListPosts(ctx context.Context, locale string) []data.PostSummary {
	s.listCalls++
	return s.byLocale[locale]
}

func (s *stubPosts) ListPostsByCategory(ctx context.Context, locale, category string) []data.PostSummary {
	s.categoryCalls++
	var out []data.PostSummary
	for _, p := range s.byLocale[locale] {
		if p.Category != nil && *p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (s *stubPosts) FeaturedPosts(ctx context.Context, locale string, n int) []data.PostSummary {
	return nil
}

func (s *stubPosts) GetPost(ctx context.Context, locale, slug string) (*data.PostSummary, error) {
	return nil, service.ErrPostNotFound
}

func (s *stubPosts) Categories(ctx context.Context, locale string) []string {
	return []string{"Guides"}
}

type stubArticles struct {
	article *service.Article
	err     error
}

func (s *stubArticles) GetArticle(ctx context.Context, locale, slug string) (*service.Article, error) {
	return s.article, s.err
}

func newTools(t *testing.T, articles ArticleGetter) *Tools {
	t.Helper()
	resolver, err := locale.NewResolver(config.SiteConfig{
		Locales:       []config.Locale{{Code: "en", Tag: "en"}, {Code: "hk", Tag: "zh-HK"}},
		DefaultLocale: "en",
	})
	require.NoError(t, err)

	guides := "Guides"
	published := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	posts := &stubPosts{byLocale: map[string][]data.PostSummary{
		"en": {
			{Slug: "kitchen-display", Title: "Kitchen display 101", Category: &guides, PublishDate: &published},
			{Slug: "tipping", Title: "Tipping in Taiwan"},
		},
	}}
	return &Tools{posts: posts, articles: articles, resolver: resolver, log: logger.Nop()}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewServer(t *testing.T) {
	tools := newTools(t, &stubArticles{})
	s := NewServer(tools.posts, tools.articles, tools.resolver, logger.Nop())
	assert.NotNil(t, s)
}

func TestListPosts(t *testing.T) {
	tools := newTools(t, &stubArticles{})
	ctx := context.Background()

	result, err := tools.listPosts(ctx, mcp.CallToolRequest{}, ListPostsRequest{})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	var all []postListing
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "kitchen-display", all[0].Slug)
	assert.Equal(t, "2025-05-02", all[0].PublishDate)

	result, err = tools.listPosts(ctx, mcp.CallToolRequest{}, ListPostsRequest{Locale: "en", Category: "Guides"})
	require.NoError(t, err)
	var guides []postListing
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &guides))
	require.Len(t, guides, 1)

	result, err = tools.listPosts(ctx, mcp.CallToolRequest{}, ListPostsRequest{Locale: "hk"})
	require.NoError(t, err)
	assert.Equal(t, "[]", textOf(t, result))

	result, err = tools.listPosts(ctx, mcp.CallToolRequest{}, ListPostsRequest{Locale: "fr"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetPost(t *testing.T) {
	ctx := context.Background()

	t.Run("markdown", func(t *testing.T) {
		tools := newTools(t, &stubArticles{article: &service.Article{
			Post:       data.PostSummary{Title: "Kitchen display 101"},
			Body:       template.HTML("<p>Bump tickets from any screen.</p>"),
			Incomplete: true,
		}})
		result, err := tools.getPost(ctx, mcp.CallToolRequest{}, GetPostRequest{Slug: "kitchen-display"})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		text := textOf(t, result)
		assert.Contains(t, text, "# Kitchen display 101")
		assert.Contains(t, text, "Bump tickets from any screen.")
		assert.Contains(t, text, "could not be loaded")
	})

	t.Run("missing slug", func(t *testing.T) {
		tools := newTools(t, &stubArticles{})
		result, err := tools.getPost(ctx, mcp.CallToolRequest{}, GetPostRequest{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("not found", func(t *testing.T) {
		tools := newTools(t, &stubArticles{err: service.ErrPostNotFound})
		result, err := tools.getPost(ctx, mcp.CallToolRequest{}, GetPostRequest{Slug: "gone"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), `no post "gone"`)
	})

	t.Run("upstream error", func(t *testing.T) {
		tools := newTools(t, &stubArticles{err: errors.New("timeout")})
		result, err := tools.getPost(ctx, mcp.CallToolRequest{}, GetPostRequest{Slug: "x"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestListCategories(t *testing.T) {
	tools := newTools(t, &stubArticles{})

	result, err := tools.listCategories(context.Background(), mcp.CallToolRequest{}, ListCategoriesRequest{Locale: "en"})

	require.NoError(t, err)
	assert.Equal(t, `["Guides"]`, textOf(t, result))
}

func TestListPosts_QueriesOnce(t *testing.T) {
	tools := newTools(t, &stubArticles{})
	posts := tools.posts.(*stubPosts)
	ctx := context.Background()

	_, err := tools.listPosts(ctx, mcp.CallToolRequest{}, ListPostsRequest{Category: "Guides"})
	require.NoError(t, err)
	assert.Equal(t, 0, posts.listCalls)
	assert.Equal(t, 1, posts.categoryCalls)

	_, err = tools.listPosts(ctx, mcp.CallToolRequest{}, ListPostsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, posts.listCalls)
	assert.Equal(t, 1, posts.categoryCalls)
}
