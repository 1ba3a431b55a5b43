package service

import (
	"context"
	"fmt"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultFetchConcurrency bounds in-flight children requests when none is configured.
const DefaultFetchConcurrency = 4

// ChildLister lists one page of a block's children.
type ChildLister interface {
	ListChildren(ctx context.Context, blockID, cursor string, pageSize int) (*data.BlockPage, error)
}

// Tree is the result of a block tree fetch. Failures counts the nodes whose children
// could not be fetched and were left empty.
type Tree struct {
	Blocks   []*data.Block
	Failures int
}

// Incomplete reports whether any part of the tree was dropped.
func (t Tree) Incomplete() bool {
	return t.Failures > 0
}

// BlockTreeFetcher retrieves a page's blocks with all container descendants resolved.
type BlockTreeFetcher struct {
	client   ChildLister
	pageSize int
	sem      *semaphore.Weighted
	log      logger.Logger
}

// NewBlockTreeFetcher creates a fetcher that keeps at most concurrency children
// requests in flight across the whole tree.
func NewBlockTreeFetcher(client ChildLister, pageSize, concurrency int, log logger.Logger) *BlockTreeFetcher {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	return &BlockTreeFetcher{
		client:   client,
		pageSize: pageSize,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		log:      log,
	}
}

// Fetch returns rootID's children in document order with every container descendant
// resolved. It never fails: a node whose children cannot be fetched gets an empty
// children slice and the failure is logged and counted.
func (f *BlockTreeFetcher) Fetch(ctx context.Context, rootID string) Tree {
	var failures atomic.Int64

	blocks, err := f.listAll(ctx, rootID)
	if err != nil {
		f.log.With(map[string]interface{}{"block_id": rootID}).Error(err, "Failed to fetch page blocks")
		return Tree{Blocks: []*data.Block{}, Failures: 1}
	}

	f.expand(ctx, blocks, &failures)
	return Tree{Blocks: blocks, Failures: int(failures.Load())}
}

// listAll pages through blockID's children. Each request waits for the previous
// page's cursor, and pages are concatenated in the order received.
func (f *BlockTreeFetcher) listAll(ctx context.Context, blockID string) ([]*data.Block, error) {
	blocks := []*data.Block{}
	cursor := ""
	seen := map[string]bool{}
	for {
		if err := f.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		page, err := f.client.ListChildren(ctx, blockID, cursor, f.pageSize)
		f.sem.Release(1)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, page.Results...)
		if page.NextCursor == "" {
			return blocks, nil
		}
		if seen[page.NextCursor] {
			return nil, fmt.Errorf("children cursor for %s repeated %q", blockID, page.NextCursor)
		}
		seen[page.NextCursor] = true
		cursor = page.NextCursor
	}
}

// expand resolves the children of every container block in blocks, one goroutine per
// block, and waits for all of them. A goroutine only writes to its own block, so the
// sibling order of blocks is never disturbed by completion order.
func (f *BlockTreeFetcher) expand(ctx context.Context, blocks []*data.Block, failures *atomic.Int64) {
	var wg sync.WaitGroup
	for _, b := range blocks {
		if !b.Type.IsContainer() {
			continue
		}
		if !b.HasChildren {
			b.Children = []*data.Block{}
			continue
		}

		wg.Add(1)
		go func(b *data.Block) {
			defer wg.Done()

			children, err := f.listAll(ctx, b.ID)
			if err != nil {
				f.log.With(map[string]interface{}{"block_id": b.ID, "block_type": string(b.Type)}).
					Error(err, "Failed to fetch block children, continuing without them")
				failures.Add(1)
				b.Children = []*data.Block{}
				return
			}

			f.expand(ctx, children, failures)
			b.Children = children
		}(b)
	}
	wg.Wait()
}
