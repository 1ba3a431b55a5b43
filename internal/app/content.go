// Package app assembles the content pipeline shared by the web server and the CLI.
package app

import (
	"errors"
	"marketing-site/internal/cache"
	"marketing-site/internal/config"
	"marketing-site/internal/locale"
	"marketing-site/internal/logger"
	"marketing-site/internal/notion"
	"marketing-site/internal/render"
	"marketing-site/internal/service"
)

// Content is the wired content pipeline: Notion client, optional response cache, post
// queries and article assembly.
type Content struct {
	Notion   *notion.Client
	Cache    *cache.Cache // nil when caching is disabled
	Posts    *service.PostService
	Articles *service.ArticleService
	Resolver *locale.Resolver
}

// NewContent builds the content pipeline from configuration.
func NewContent(cfg *config.Config, log logger.Logger) (*Content, error) {
	if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
		return nil, errors.New("notion token and database id must be configured")
	}

	resolver, err := locale.NewResolver(cfg.Site)
	if err != nil {
		return nil, err
	}

	c := &Content{
		Notion:   notion.NewClient(cfg.Notion),
		Resolver: resolver,
	}

	var source service.PostSource = c.Notion
	if cfg.Cache.TTL > 0 && cfg.Cache.FilePath != "" {
		c.Cache, err = cache.New(cfg.Cache)
		if err != nil {
			return nil, err
		}
		source = cache.NewPostSource(c.Notion, c.Cache, cfg.Cache.TTL, log)
	}

	c.Posts = service.NewPostService(source, cfg.Site.FallbackLocale, log)
	fetcher := service.NewBlockTreeFetcher(c.Notion, c.Notion.PageSize(), cfg.Notion.Concurrency, log)
	c.Articles = service.NewArticleService(c.Posts, fetcher, render.New(log), log)
	return c, nil
}

// Close releases the cache database, if any.
func (c *Content) Close() error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}
