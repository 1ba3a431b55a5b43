//go:build unit

package service

import (
	"context"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"marketing-site/internal/render"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageLister serves fixed children per block id, with no pagination.
type pageLister struct {
	children map[string][]*data.Block
	fail     map[string]bool
}

func (p *pageLister) ListChildren(ctx context.Context, blockID, cursor string, pageSize int) (*data.BlockPage, error) {
	if p.fail[blockID] {
		return nil, context.DeadlineExceeded
	}
	return &data.BlockPage{Results: p.children[blockID]}, nil
}

func text(id string, typ data.BlockType, s string, hasChildren bool) *data.Block {
	return &data.Block{ID: id, Type: typ, HasChildren: hasChildren, Content: data.TextContent{RichText: []data.RichText{{PlainText: s}}}}
}

func newArticleFixture(fail map[string]bool) (*ArticleService, *mockPostSource) {
	source := &mockPostSource{rows: map[string][]data.PostRecord{
		"en": {{
			PostSummary: data.PostSummary{ID: "page-1", Slug: "pricing", Title: "Pricing explained", Summary: "How plans work."},
			Published:   true,
		}},
	}}
	lister := &pageLister{
		children: map[string][]*data.Block{
			"page-1": {
				text("h1", data.BlockHeading1, "Pricing Plans", false),
				text("li", data.BlockBulletedListItem, "Starter", true),
				text("h2", data.BlockHeading2, "FAQ", false),
			},
			"li": {text("li-1", data.BlockParagraph, "Up to two outlets", false)},
		},
		fail: fail,
	}

	log := logger.Nop()
	posts := NewPostService(source, "en", log)
	fetcher := NewBlockTreeFetcher(lister, 100, 2, log)
	return NewArticleService(posts, fetcher, render.New(log), log), source
}

func TestArticleService_GetArticle(t *testing.T) {
	svc, _ := newArticleFixture(nil)

	article, err := svc.GetArticle(context.Background(), "en", "pricing")
	require.NoError(t, err)

	assert.Equal(t, "Pricing explained", article.Post.Title)
	assert.False(t, article.Incomplete)
	assert.Contains(t, string(article.Body), `<h1 id="pricing-plans">`)
	assert.Contains(t, string(article.Body), "Up to two outlets")
	require.Len(t, article.Headings, 2)
	assert.Equal(t, "pricing-plans", article.Headings[0].ID)
	assert.Equal(t, "faq", article.Headings[1].ID)
}

func TestArticleService_NotFound(t *testing.T) {
	svc, _ := newArticleFixture(nil)

	_, err := svc.GetArticle(context.Background(), "en", "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestArticleService_PartialContent(t *testing.T) {
	svc, _ := newArticleFixture(map[string]bool{"li": true})

	article, err := svc.GetArticle(context.Background(), "en", "pricing")
	require.NoError(t, err)

	assert.True(t, article.Incomplete)
	assert.Contains(t, string(article.Body), "Starter")
	assert.NotContains(t, string(article.Body), "Up to two outlets")
	assert.Contains(t, string(article.Body), `id="faq"`)
}

func TestArticle_Markdown(t *testing.T) {
	svc, _ := newArticleFixture(nil)
	article, err := svc.GetArticle(context.Background(), "en", "pricing")
	require.NoError(t, err)

	md, err := article.Markdown()
	require.NoError(t, err)
	assert.Contains(t, md, "# Pricing explained\n\n> How plans work.")
	assert.Contains(t, md, "# Pricing Plans")
	assert.Contains(t, md, "## FAQ")
}

func TestArticleService_Preview(t *testing.T) {
	svc, _ := newArticleFixture(nil)

	article, err := svc.Preview(context.Background(), "page-1")
	require.NoError(t, err)
	assert.Equal(t, "page-1", article.Post.ID)
	assert.Len(t, article.Blocks, 3)

	md, err := article.Markdown()
	require.NoError(t, err)
	assert.Contains(t, md, "## FAQ")
}
