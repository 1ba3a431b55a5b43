package service

import (
	"context"
	"errors"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"sort"
)

// ErrPostNotFound is returned when no visible post carries the requested slug.
var ErrPostNotFound = errors.New("post not found")

// PostSource queries the post database.
type PostSource interface {
	QueryPosts(ctx context.Context, filter data.PostFilter) ([]data.PostRecord, error)
}

// PostServicer defines the read operations the blog pages need.
type PostServicer interface {
	ListPosts(ctx context.Context, locale string) []data.PostSummary
	ListPostsByCategory(ctx context.Context, locale, category string) []data.PostSummary
	FeaturedPosts(ctx context.Context, locale string, n int) []data.PostSummary
	GetPost(ctx context.Context, locale, slug string) (*data.PostSummary, error)
	Categories(ctx context.Context, locale string) []string
}

// PostService lists and looks up blog posts for a locale.
type PostService struct {
	source         PostSource
	fallbackLocale string
	log            logger.Logger
}

var _ PostServicer = (*PostService)(nil)

// NewPostService creates a PostService. fallbackLocale is used by ListPostsByCategory
// when a locale has no posts in the requested category.
func NewPostService(source PostSource, fallbackLocale string, log logger.Logger) *PostService {
	return &PostService{source: source, fallbackLocale: fallbackLocale, log: log}
}

// ListPosts returns the published posts visible in locale, newest first. Posts without
// a publish date come last. Query failures are logged and yield an empty list.
func (s *PostService) ListPosts(ctx context.Context, locale string) []data.PostSummary {
	return s.query(ctx, data.PostFilter{Locale: locale})
}

// ListPostsByCategory returns the posts of one category for locale. When the locale has
// none, the fallback locale's posts in that category are returned instead.
func (s *PostService) ListPostsByCategory(ctx context.Context, locale, category string) []data.PostSummary {
	posts := s.query(ctx, data.PostFilter{Locale: locale, Category: category})
	if len(posts) > 0 || s.fallbackLocale == "" || locale == s.fallbackLocale {
		return posts
	}

	s.log.With(map[string]interface{}{"locale": locale, "category": category, "fallback": s.fallbackLocale}).
		Debug("No posts in category for locale, using fallback locale")
	return s.query(ctx, data.PostFilter{Locale: s.fallbackLocale, Category: category})
}

// FeaturedPosts returns at most n featured posts for locale in listing order.
func (s *PostService) FeaturedPosts(ctx context.Context, locale string, n int) []data.PostSummary {
	featured := []data.PostSummary{}
	for _, p := range s.ListPosts(ctx, locale) {
		if len(featured) == n {
			break
		}
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}
	return featured
}

// GetPost looks up one visible post by slug.
func (s *PostService) GetPost(ctx context.Context, locale, slug string) (*data.PostSummary, error) {
	if slug == "" {
		return nil, ErrPostNotFound
	}
	rows, err := s.source.QueryPosts(ctx, data.PostFilter{Locale: locale, Slug: slug})
	if err != nil {
		return nil, err
	}
	for _, p := range visible(rows, data.PostFilter{Locale: locale}) {
		if p.Slug == slug {
			post := p
			return &post, nil
		}
	}
	return nil, ErrPostNotFound
}

// Categories returns the distinct categories used by the posts of locale, sorted.
func (s *PostService) Categories(ctx context.Context, locale string) []string {
	seen := map[string]bool{}
	categories := []string{}
	for _, p := range s.ListPosts(ctx, locale) {
		if p.Category == nil || *p.Category == "" || seen[*p.Category] {
			continue
		}
		seen[*p.Category] = true
		categories = append(categories, *p.Category)
	}
	sort.Strings(categories)
	return categories
}

func (s *PostService) query(ctx context.Context, filter data.PostFilter) []data.PostSummary {
	rows, err := s.source.QueryPosts(ctx, filter)
	if err != nil {
		s.log.With(map[string]interface{}{"locale": filter.Locale, "category": filter.Category}).
			Error(err, "Failed to query posts")
		return []data.PostSummary{}
	}
	return visible(rows, filter)
}

// visible keeps the rows a reader of filter.Locale may see and orders them by publish
// date, newest first. The source applies the same predicate server side; it is checked
// again here so a permissive source cannot leak drafts or other regions' posts.
func visible(rows []data.PostRecord, filter data.PostFilter) []data.PostSummary {
	posts := make([]data.PostSummary, 0, len(rows))
	for _, r := range rows {
		if !r.Published || r.Slug == "" {
			continue
		}
		if r.Region != "" && r.Region != filter.Locale {
			continue
		}
		if filter.Category != "" && (r.Category == nil || *r.Category != filter.Category) {
			continue
		}
		posts = append(posts, r.PostSummary)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishDate, posts[j].PublishDate
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	return posts
}
