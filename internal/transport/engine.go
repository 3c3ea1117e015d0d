// Package transport is the shared engine wrapper the httpapi and
// mcpserver subpackages both expose over their own protocol: it resolves
// a named index to its orchestrator (or cached searcher) and runs one
// query against it.
package transport

import (
	"context"

	pickyerrors "github.com/Aman-CERP/picky/internal/errors"
	"github.com/Aman-CERP/picky/internal/search"
)

// Searcher is the subset of *search.Orchestrator (or a
// *querycache.CachedSearcher wrapping one) a transport needs.
type Searcher interface {
	Search(ctx context.Context, queryText string, limit, offset int) search.Result
}

// Engine fans queries out to the named index's Searcher.
type Engine struct {
	searchers map[string]Searcher
}

// NewEngine builds an Engine over a fixed set of named searchers,
// typically one per loaded internal/snapshot.Handle.
func NewEngine(searchers map[string]Searcher) *Engine {
	return &Engine{searchers: searchers}
}

// Search runs queryText against index, returning UnknownIndexError if no
// searcher is registered under that name.
func (e *Engine) Search(ctx context.Context, index, queryText string, limit, offset int) (search.Result, error) {
	s, ok := e.searchers[index]
	if !ok {
		return search.Result{}, pickyerrors.UnknownIndexError(index)
	}
	return s.Search(ctx, queryText, limit, offset), nil
}

// Indexes returns every registered index name, in unspecified order.
func (e *Engine) Indexes() []string {
	names := make([]string, 0, len(e.searchers))
	for name := range e.searchers {
		names = append(names, name)
	}
	return names
}
