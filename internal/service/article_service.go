package service

import (
	"context"
	"fmt"
	"html/template"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"marketing-site/internal/render"
	"marketing-site/internal/toc"
	"strings"
)

// TreeFetcher retrieves a page's resolved block tree.
type TreeFetcher interface {
	Fetch(ctx context.Context, rootID string) Tree
}

// BlockRenderer turns a block tree into sanitized HTML.
type BlockRenderer interface {
	Render(blocks []*data.Block) (template.HTML, error)
}

// Article is a blog post ready for display.
type Article struct {
	Post       data.PostSummary
	Blocks     []*data.Block
	Body       template.HTML
	Headings   []toc.Heading
	Incomplete bool // some nested content could not be fetched
}

// ArticleService assembles articles from post metadata and page content.
type ArticleService struct {
	posts    PostServicer
	fetcher  TreeFetcher
	renderer BlockRenderer
	log      logger.Logger
}

// NewArticleService creates a new ArticleService.
func NewArticleService(posts PostServicer, fetcher TreeFetcher, renderer BlockRenderer, log logger.Logger) *ArticleService {
	return &ArticleService{posts: posts, fetcher: fetcher, renderer: renderer, log: log}
}

// GetArticle looks up the post with slug in locale and renders its content. A post
// whose nested content was only partly fetched is still returned with Incomplete set.
func (s *ArticleService) GetArticle(ctx context.Context, locale, slug string) (*Article, error) {
	post, err := s.posts.GetPost(ctx, locale, slug)
	if err != nil {
		return nil, err
	}

	article, err := s.Preview(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	article.Post = *post
	return article, nil
}

// Preview renders the page rootID without looking up post metadata.
func (s *ArticleService) Preview(ctx context.Context, rootID string) (*Article, error) {
	tree := s.fetcher.Fetch(ctx, rootID)
	if tree.Incomplete() {
		s.log.With(map[string]interface{}{"page_id": rootID, "failures": tree.Failures}).
			Warn("Rendering page with incomplete content")
	}

	body, err := s.renderer.Render(tree.Blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %s: %w", rootID, err)
	}

	return &Article{
		Post:       data.PostSummary{ID: rootID},
		Blocks:     tree.Blocks,
		Body:       body,
		Headings:   toc.Extract(tree.Blocks),
		Incomplete: tree.Incomplete(),
	}, nil
}

// Markdown renders an article as a Markdown document headed by its title.
func (a *Article) Markdown() (string, error) {
	body, err := render.Markdown(a.Body)
	if err != nil {
		return "", err
	}
	if a.Post.Title == "" {
		return body, nil
	}

	var b strings.Builder
	b.WriteString("# " + a.Post.Title + "\n\n")
	if a.Post.Summary != "" {
		b.WriteString("> " + a.Post.Summary + "\n\n")
	}
	b.WriteString(body)
	return b.String(), nil
}
