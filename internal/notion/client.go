// Package notion is the content client for the blog database hosted on Notion.
package notion

import (
	"context"
	"fmt"
	"marketing-site/internal/config"
	"marketing-site/internal/data"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize is the largest page the Notion API returns.
	DefaultPageSize = 100

	// DefaultRequestsPerSecond matches Notion's documented average rate limit.
	DefaultRequestsPerSecond = 3
)

// Client issues authenticated database queries and children listings.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
	pageSize   int
	limiter    *rate.Limiter
}

// NewClient creates a Client from configuration. Extra options are passed to the
// underlying notionapi client (tests use them to inject an HTTP client).
func NewClient(cfg config.NotionConfig, opts ...notionapi.ClientOption) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	return &Client{
		api:        notionapi.NewClient(notionapi.Token(cfg.Token), opts...),
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
		pageSize:   pageSize,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// QueryPosts runs the post query for f and follows the result cursor until the
// database reports no more rows. Rows come back in the server's sort order.
func (c *Client) QueryPosts(ctx context.Context, f data.PostFilter) ([]data.PostRecord, error) {
	req := &notionapi.DatabaseQueryRequest{
		Filter: postFilter(f),
		Sorts: []notionapi.SortObject{
			{Property: PropDate, Direction: notionapi.SortOrderDESC},
		},
		PageSize: c.pageSize,
	}

	var records []data.PostRecord
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := c.api.Database.Query(ctx, c.databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", c.databaseID, err)
		}

		for i := range resp.Results {
			records = append(records, recordFromPage(&resp.Results[i]))
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		req.StartCursor = notionapi.Cursor(resp.NextCursor)
	}

	return records, nil
}

// ListChildren fetches one page of blockID's children starting at cursor.
func (c *Client) ListChildren(ctx context.Context, blockID, cursor string, pageSize int) (*data.BlockPage, error) {
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = c.pageSize
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", blockID, err)
	}

	page := &data.BlockPage{Results: make([]*data.Block, 0, len(resp.Results))}
	for _, b := range resp.Results {
		page.Results = append(page.Results, convertBlock(b))
	}
	if resp.HasMore {
		page.NextCursor = string(resp.NextCursor)
	}
	return page, nil
}

// PageSize is the page size used when callers do not specify one.
func (c *Client) PageSize() int {
	return c.pageSize
}
