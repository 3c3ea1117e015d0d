// Package querycache sits strictly outside the core query path, caching
// qualifier resolutions and recent full query results per index and
// collapsing concurrent identical in-flight queries against the same
// index into one evaluation. The core search orchestrator itself has no
// cache and does not import this package.
package querycache

import (
	"context"
	"fmt"

	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/qualifier"
	"github.com/Aman-CERP/picky/internal/search"
	"github.com/Aman-CERP/picky/internal/token"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultResolveCacheSize bounds the number of distinct (token text,
// qualifier set) resolutions kept per index.
const DefaultResolveCacheSize = 4096

// DefaultResultCacheSize bounds the number of distinct (query, limit,
// offset) results kept per index.
const DefaultResultCacheSize = 512

// Searcher is the subset of *search.Orchestrator this package wraps.
type Searcher interface {
	Search(ctx context.Context, queryText string, limit, offset int) search.Result
}

// CachedResolver wraps a qualifier.Resolver with an LRU cache keyed by the
// token's qualifier-resolution identity. Resolve's result slice is shared
// across callers and must not be mutated.
type CachedResolver struct {
	inner *qualifier.Resolver
	cache *lru.Cache[string, []posting.Category]
}

// NewCachedResolver wraps inner with an LRU of the given size, falling
// back to DefaultResolveCacheSize when size <= 0.
func NewCachedResolver(inner *qualifier.Resolver, size int) *CachedResolver {
	if size <= 0 {
		size = DefaultResolveCacheSize
	}
	cache, _ := lru.New[string, []posting.Category](size)
	return &CachedResolver{inner: inner, cache: cache}
}

// Resolve mirrors qualifier.Resolver.Resolve, caching by the token's
// qualifier set and raw text.
func (c *CachedResolver) Resolve(t token.Token) []posting.Category {
	key := resolveKey(t)
	if cats, ok := c.cache.Get(key); ok {
		return cats
	}
	cats := c.inner.Resolve(t)
	c.cache.Add(key, cats)
	return cats
}

func resolveKey(t token.Token) string {
	key := t.Text
	for _, q := range t.Qualifiers {
		key += "\x1f" + q
	}
	return key
}

// CachedSearcher wraps a Searcher with an LRU of recent full query results
// and a singleflight group collapsing concurrent identical queries for
// the same index into one evaluation.
type CachedSearcher struct {
	inner Searcher
	cache *lru.Cache[string, search.Result]
	group singleflight.Group
}

// NewCachedSearcher wraps inner with an LRU of the given size, falling
// back to DefaultResultCacheSize when size <= 0.
func NewCachedSearcher(inner Searcher, size int) *CachedSearcher {
	if size <= 0 {
		size = DefaultResultCacheSize
	}
	cache, _ := lru.New[string, search.Result](size)
	return &CachedSearcher{inner: inner, cache: cache}
}

// Search returns a cached result when one exists for the exact
// (queryText, limit, offset) triple; otherwise it runs the query once per
// set of concurrent identical callers and caches the outcome. A truncated
// result (the query's deadline expired) is never cached, since a later,
// unhurried caller deserves a chance at a complete answer.
func (c *CachedSearcher) Search(ctx context.Context, queryText string, limit, offset int) search.Result {
	key := fmt.Sprintf("%s\x1f%d\x1f%d", queryText, limit, offset)

	if result, ok := c.cache.Get(key); ok {
		return result
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		result := c.inner.Search(ctx, queryText, limit, offset)
		if !result.Truncated {
			c.cache.Add(key, result)
		}
		return result, nil
	})
	return v.(search.Result)
}
