package cache

import (
	"context"
	"encoding/json"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"time"
)

// PostQuerier is the post query the decorator wraps.
type PostQuerier interface {
	QueryPosts(ctx context.Context, filter data.PostFilter) ([]data.PostRecord, error)
}

// PostSource serves post queries from the cache for ttl and falls through to the
// wrapped source on a miss. Cache failures are logged and never fail the query.
type PostSource struct {
	next  PostQuerier
	cache *Cache
	ttl   time.Duration
	log   logger.Logger
}

// NewPostSource wraps next. A zero ttl disables caching.
func NewPostSource(next PostQuerier, cache *Cache, ttl time.Duration, log logger.Logger) *PostSource {
	return &PostSource{next: next, cache: cache, ttl: ttl, log: log}
}

func postKey(f data.PostFilter) string {
	return "posts:" + f.Locale + "|" + f.Category + "|" + f.Slug
}

// QueryPosts implements PostQuerier.
func (p *PostSource) QueryPosts(ctx context.Context, filter data.PostFilter) ([]data.PostRecord, error) {
	if p.ttl <= 0 || p.cache == nil {
		return p.next.QueryPosts(ctx, filter)
	}

	key := postKey(filter)
	log := p.log.With(map[string]interface{}{"key": key})

	raw, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Error(err, "Post cache read failed")
	}
	if raw != nil {
		var rows []data.PostRecord
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
		log.Warn("Discarding undecodable post cache entry")
	}

	rows, err := p.next.QueryPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rows); err != nil {
		log.Error(err, "Failed to encode posts for cache")
	} else if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
		log.Error(err, "Post cache write failed")
	}
	return rows, nil
}
