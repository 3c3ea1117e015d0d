package transport

import (
	"context"
	"testing"

	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct{ result search.Result }

func (s stubSearcher) Search(ctx context.Context, queryText string, limit, offset int) search.Result {
	return s.result
}

// TS01: Search routes to the named index's searcher.
func TestEngine_RoutesToNamedIndex(t *testing.T) {
	e := NewEngine(map[string]Searcher{
		"products": stubSearcher{result: search.Result{IDs: []posting.ID{1, 2}}},
	})

	result, err := e.Search(context.Background(), "products", "shoes", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []posting.ID{1, 2}, result.IDs)
}

// TS02: An unknown index name is a non-fatal, reported error.
func TestEngine_UnknownIndex(t *testing.T) {
	e := NewEngine(map[string]Searcher{})

	_, err := e.Search(context.Background(), "missing", "q", 10, 0)
	assert.Error(t, err)
}
