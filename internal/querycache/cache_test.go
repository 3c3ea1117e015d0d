package querycache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/qualifier"
	"github.com/Aman-CERP/picky/internal/search"
	"github.com/Aman-CERP/picky/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []posting.Category {
	return []posting.Category{
		posting.NewCategory("title", 0, []string{"title"}, 0, nil, nil, nil),
		posting.NewCategory("author", 1, []string{"author", "writer"}, 0, nil, nil, nil),
	}
}

// TS01: CachedResolver returns the same result as the wrapped resolver,
// on both a miss and a subsequent hit.
func TestCachedResolver_MatchesInner(t *testing.T) {
	inner := qualifier.New(testCategories())
	c := NewCachedResolver(inner, 0)

	tok := token.Token{Text: "hello", Qualifiers: []string{"author"}}
	want := inner.Resolve(tok)

	got1 := c.Resolve(tok)
	got2 := c.Resolve(tok)

	assert.Equal(t, want, got1)
	assert.Equal(t, want, got2)
}

// TS02: Distinct qualifier sets on the same token text cache separately.
func TestCachedResolver_DistinguishesQualifierSets(t *testing.T) {
	inner := qualifier.New(testCategories())
	c := NewCachedResolver(inner, 0)

	unqualified := c.Resolve(token.Token{Text: "hello"})
	qualified := c.Resolve(token.Token{Text: "hello", Qualifiers: []string{"author"}})

	assert.Len(t, unqualified, 2)
	assert.Len(t, qualified, 1)
}

type countingSearcher struct {
	calls atomic.Int32
	ready chan struct{}
}

func (s *countingSearcher) Search(ctx context.Context, queryText string, limit, offset int) search.Result {
	s.calls.Add(1)
	if s.ready != nil {
		<-s.ready
	}
	return search.Result{IDs: []posting.ID{1, 2, 3}}
}

// TS03: Identical queries hit the cache instead of re-running the search.
func TestCachedSearcher_CachesByQueryLimitOffset(t *testing.T) {
	inner := &countingSearcher{}
	c := NewCachedSearcher(inner, 0)

	r1 := c.Search(context.Background(), "red shoes", 10, 0)
	r2 := c.Search(context.Background(), "red shoes", 10, 0)

	assert.Equal(t, r1, r2)
	assert.EqualValues(t, 1, inner.calls.Load())
}

// TS04: Different offsets are cached independently.
func TestCachedSearcher_DistinguishesOffset(t *testing.T) {
	inner := &countingSearcher{}
	c := NewCachedSearcher(inner, 0)

	c.Search(context.Background(), "red shoes", 10, 0)
	c.Search(context.Background(), "red shoes", 10, 10)

	assert.EqualValues(t, 2, inner.calls.Load())
}

// TS05: Concurrent identical queries collapse into a single evaluation.
func TestCachedSearcher_CollapsesConcurrentIdenticalQueries(t *testing.T) {
	inner := &countingSearcher{ready: make(chan struct{})}
	c := NewCachedSearcher(inner, 0)

	var wg sync.WaitGroup
	results := make([]search.Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Search(context.Background(), "red shoes", 10, 0)
		}(i)
	}

	close(inner.ready)
	wg.Wait()

	require.EqualValues(t, 1, inner.calls.Load())
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
