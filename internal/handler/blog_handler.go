package handler

import (
	"context"
	"errors"
	"marketing-site/internal/logger"
	"marketing-site/internal/middleware"
	"marketing-site/internal/service"
	"marketing-site/internal/toc"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// HeaderContentIncomplete is set on article responses whose nested content could
// only be partly fetched.
const HeaderContentIncomplete = "X-Content-Incomplete"

// ArticleGetter assembles a rendered article.
type ArticleGetter interface {
	GetArticle(ctx context.Context, locale, slug string) (*service.Article, error)
}

// BlogHandler serves the blog index, category listings and articles.
type BlogHandler struct {
	posts    service.PostServicer
	articles ArticleGetter
	view     middleware.Renderer
	log      logger.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(posts service.PostServicer, articles ArticleGetter, v middleware.Renderer, log logger.Logger) *BlogHandler {
	return &BlogHandler{posts: posts, articles: articles, view: v, log: log}
}

// listHandler renders every post of the locale.
func (h *BlogHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	loc := middleware.CurrentLocale(r)
	return h.renderList(w, r, "", h.posts.ListPosts(r.Context(), loc))
}

// categoryHandler renders the posts of one category, falling back to the default
// locale's posts when the locale has none.
func (h *BlogHandler) categoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	loc := middleware.CurrentLocale(r)
	category := chi.URLParam(r, "category")
	return h.renderList(w, r, category, h.posts.ListPostsByCategory(r.Context(), loc, category))
}

func (h *BlogHandler) renderList(w http.ResponseWriter, r *http.Request, category string, posts interface{}) *middleware.AppError {
	data := map[string]interface{}{
		"Posts":      posts,
		"Category":   category,
		"Categories": h.posts.Categories(r.Context(), middleware.CurrentLocale(r)),
	}
	if err := h.view.Render(w, r, "blog_list.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render blog", Code: http.StatusInternalServerError}
	}
	return nil
}

// postHandler renders one article, or its Markdown export when the slug ends in ".md".
func (h *BlogHandler) postHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	loc := middleware.CurrentLocale(r)
	slug := chi.URLParam(r, "slug")
	markdown := strings.HasSuffix(slug, ".md")
	slug = strings.TrimSuffix(slug, ".md")

	article, err := h.articles.GetArticle(r.Context(), loc, slug)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "The blog is temporarily unavailable", Code: http.StatusServiceUnavailable}
	}

	if article.Incomplete {
		h.log.With(map[string]interface{}{"slug": slug, "locale": loc}).Warn("Serving article with incomplete content")
		w.Header().Set(HeaderContentIncomplete, "true")
	}

	if markdown {
		md, err := article.Markdown()
		if err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to export article", Code: http.StatusInternalServerError}
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
		return nil
	}

	data := map[string]interface{}{
		"Article":         article,
		"Description":     article.Post.Summary,
		"TOC":             toc.Entries(article.Headings),
		"TOCVisibleRatio": toc.VisibleRatio,
	}
	if err := h.view.Render(w, r, "blog_post.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render article", Code: http.StatusInternalServerError}
	}
	return nil
}
