package mcpserver

import (
	"context"
	"testing"

	"github.com/Aman-CERP/picky/internal/posting"
	"github.com/Aman-CERP/picky/internal/search"
	"github.com/Aman-CERP/picky/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct{ result search.Result }

func (s stubSearcher) Search(ctx context.Context, queryText string, limit, offset int) search.Result {
	return s.result
}

// TS01: New registers the search tool without error.
func TestNew_BuildsServer(t *testing.T) {
	engine := transport.NewEngine(map[string]transport.Searcher{})
	s := New(engine, "test", nil)
	assert.NotNil(t, s.MCPServer())
}

// TS02: handleSearch routes to the engine and maps the result.
func TestHandleSearch_RoutesToEngine(t *testing.T) {
	engine := transport.NewEngine(map[string]transport.Searcher{
		"products": stubSearcher{result: search.Result{IDs: []posting.ID{1, 2}}},
	})
	s := New(engine, "test", nil)

	_, out, err := s.handleSearch(context.Background(), nil, SearchInput{Index: "products", Query: "shoes"})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, out.IDs)
}

// TS03: An empty index is rejected before reaching the engine.
func TestHandleSearch_RejectsEmptyIndex(t *testing.T) {
	engine := transport.NewEngine(map[string]transport.Searcher{})
	s := New(engine, "test", nil)

	_, _, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "shoes"})
	assert.Error(t, err)
}

// TS04: An unknown index surfaces the engine's error.
func TestHandleSearch_UnknownIndex(t *testing.T) {
	engine := transport.NewEngine(map[string]transport.Searcher{})
	s := New(engine, "test", nil)

	_, _, err := s.handleSearch(context.Background(), nil, SearchInput{Index: "missing", Query: "shoes"})
	assert.Error(t, err)
}
