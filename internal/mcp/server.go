// Package mcp exposes the blog to AI assistants as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marketing-site/internal/data"
	"marketing-site/internal/locale"
	"marketing-site/internal/logger"
	"marketing-site/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

// ArticleGetter assembles a rendered article.
type ArticleGetter interface {
	GetArticle(ctx context.Context, locale, slug string) (*service.Article, error)
}

type ListPostsRequest struct {
	Locale   string `json:"locale"`
	Category string `json:"category"`
}

type GetPostRequest struct {
	Locale string `json:"locale"`
	Slug   string `json:"slug"`
}

type ListCategoriesRequest struct {
	Locale string `json:"locale"`
}

// postListing is the compact form of a post returned by list_posts.
type postListing struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Category    *string `json:"category,omitempty"`
	PublishDate string  `json:"publish_date,omitempty"`
	Featured    bool    `json:"featured"`
}

// Tools holds what the tool handlers read from.
type Tools struct {
	posts    service.PostServicer
	articles ArticleGetter
	resolver *locale.Resolver
	log      logger.Logger
}

// NewServer creates an MCP server with the list_posts, get_post and list_categories tools.
func NewServer(posts service.PostServicer, articles ArticleGetter, resolver *locale.Resolver, log logger.Logger) *server.MCPServer {
	t := &Tools{posts: posts, articles: articles, resolver: resolver, log: log}

	s := server.NewMCPServer(
		"TableTap blog",
		Version,
		server.WithToolCapabilities(false),
	)

	localeOpt := mcp.WithString("locale",
		mcp.Description(fmt.Sprintf("Site locale, one of %v. Defaults to %q.", resolver.Codes(), resolver.Default())),
	)

	s.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List published blog posts, newest first"),
		localeOpt,
		mcp.WithString("category", mcp.Description("Only posts in this category")),
	), mcp.NewTypedToolHandler(t.listPosts))

	s.AddTool(mcp.NewTool("get_post",
		mcp.WithDescription("Get the full text of a blog post as Markdown"),
		localeOpt,
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("The post slug, as returned by list_posts"),
		),
	), mcp.NewTypedToolHandler(t.getPost))

	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the blog categories that have posts"),
		localeOpt,
	), mcp.NewTypedToolHandler(t.listCategories))

	return s
}

func (t *Tools) locale(code string) (string, error) {
	if code == "" {
		return t.resolver.Default(), nil
	}
	if !t.resolver.Supported(code) {
		return "", fmt.Errorf("unsupported locale %q", code)
	}
	return code, nil
}

func (t *Tools) listPosts(ctx context.Context, request mcp.CallToolRequest, args ListPostsRequest) (*mcp.CallToolResult, error) {
	loc, err := t.locale(args.Locale)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var posts []data.PostSummary
	if args.Category != "" {
		posts = t.posts.ListPostsByCategory(ctx, loc, args.Category)
	} else {
		posts = t.posts.ListPosts(ctx, loc)
	}

	out := make([]postListing, len(posts))
	for i, p := range posts {
		out[i] = postListing{
			Slug:     p.Slug,
			Title:    p.Title,
			Summary:  p.Summary,
			Category: p.Category,
			Featured: p.IsFeatured,
		}
		if p.PublishDate != nil {
			out[i].PublishDate = p.PublishDate.Format("2006-01-02")
		}
	}
	return jsonResult(out)
}

func (t *Tools) getPost(ctx context.Context, request mcp.CallToolRequest, args GetPostRequest) (*mcp.CallToolResult, error) {
	if args.Slug == "" {
		return mcp.NewToolResultError("slug is required"), nil
	}
	loc, err := t.locale(args.Locale)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	article, err := t.articles.GetArticle(ctx, loc, args.Slug)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no post %q in locale %q", args.Slug, loc)), nil
		}
		t.log.Error(err, "get_post failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to load post: %v", err)), nil
	}

	md, err := article.Markdown()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to export post: %v", err)), nil
	}
	if article.Incomplete {
		md += "\n\n_Some sections of this post could not be loaded._\n"
	}
	return mcp.NewToolResultText(md), nil
}

func (t *Tools) listCategories(ctx context.Context, request mcp.CallToolRequest, args ListCategoriesRequest) (*mcp.CallToolResult, error) {
	loc, err := t.locale(args.Locale)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t.posts.Categories(ctx, loc))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
