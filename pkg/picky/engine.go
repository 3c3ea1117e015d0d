// Package picky is the query engine's public entry point. Open a
// configuration and a directory of snapshots to obtain an Engine, then
// Search it; Watch keeps every index's snapshot current as its backing
// file is rewritten underneath it.
package picky

import (
	"context"
	"log/slog"

	"github.com/Aman-CERP/picky/internal/config"
	pickyerrors "github.com/Aman-CERP/picky/internal/errors"
	"github.com/Aman-CERP/picky/internal/qualifier"
	"github.com/Aman-CERP/picky/internal/querycache"
	"github.com/Aman-CERP/picky/internal/search"
	"github.com/Aman-CERP/picky/internal/snapshot"
	"github.com/Aman-CERP/picky/internal/transport"
)

// Category, Partial and Similarity reproduce the index.category(...)
// configuration surface. A caller builds a *config.Config (or writes one
// as YAML and loads it with Open) naming categories this way before
// pointing Open at it.
type (
	Category   = config.Category
	Partial    = config.PartialStrategy
	Similarity = config.SimilarityStrategy
)

// Location declares a category whose source is a numeric column, matched
// within radius of the queried value after bucketing at precision (1..5).
func Location(name string, radius float64, precision int) Category {
	return config.Location(name, radius, precision)
}

// Termination configures the early-termination policy; nil disables it.
type Termination = search.Termination

// Result is one query's answer.
type Result struct {
	IDs         []uint32                   `json:"ids"`
	Allocations []search.AllocationSummary `json:"allocations"`
	Truncated   bool                       `json:"truncated"`
}

// Options controls Open's behavior. A zero Options uses defaults: no
// early termination, slog.Default() as logger, the package's default
// cache sizes.
type Options struct {
	// SnapshotDir is the directory holding one subdirectory per
	// configured index, each containing a snapshot.db written by Dump.
	SnapshotDir string

	Logger *slog.Logger

	// Termination configures early termination for every index opened
	// this way; nil means every allocation is evaluated.
	Termination *Termination

	// ResolveCacheSize and ResultCacheSize override the querycache
	// defaults; <= 0 keeps the default.
	ResolveCacheSize int
	ResultCacheSize  int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.ResolveCacheSize <= 0 {
		o.ResolveCacheSize = querycache.DefaultResolveCacheSize
	}
	if o.ResultCacheSize <= 0 {
		o.ResultCacheSize = querycache.DefaultResultCacheSize
	}
	return o
}

// liveSearcher rebuilds a resolver and orchestrator from the handle's
// current snapshot on every call, so a hot-swapped snapshot is visible
// to the very next query without reopening the Engine.
type liveSearcher struct {
	handle    *snapshot.Handle
	searchCfg search.Config
	logger    *slog.Logger
}

func (s *liveSearcher) Search(ctx context.Context, queryText string, limit, offset int) search.Result {
	store := s.handle.Current()
	resolver := qualifier.New(store.Categories())
	orchestrator := search.New(store, resolver, s.searchCfg, s.logger)
	return orchestrator.Search(ctx, queryText, limit, offset)
}

// Engine serves Search against every index named in its configuration,
// keeping each index's snapshot hot-swappable underneath concurrent
// queries.
type Engine struct {
	cfg      *config.Config
	registry *snapshot.Registry
	engine   *transport.Engine
	logger   *slog.Logger
}

// Open reads an index configuration file and loads every named index's
// snapshot from opts.SnapshotDir, returning a ready-to-query Engine.
func Open(ctx context.Context, configPath string, opts Options) (*Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return OpenConfig(ctx, cfg, opts)
}

// OpenConfig is Open for a configuration already built in memory (for
// example, assembled with Category/Location rather than loaded from
// YAML).
func OpenConfig(ctx context.Context, cfg *config.Config, opts Options) (*Engine, error) {
	opts = opts.withDefaults()

	names := make([]string, len(cfg.Indexes))
	for i, idx := range cfg.Indexes {
		names[i] = idx.Name
	}

	registry, err := snapshot.LoadRegistry(ctx, snapshot.SourcesFromDir(opts.SnapshotDir, names))
	if err != nil {
		return nil, err
	}

	searchCfg := search.DefaultConfig()
	searchCfg.TerminateEarly = opts.Termination

	searchers := make(map[string]transport.Searcher, len(cfg.Indexes))
	for _, idxCfg := range cfg.Indexes {
		handle := registry.Handle(idxCfg.Name)
		if handle == nil {
			return nil, pickyerrors.UnknownIndexError(idxCfg.Name)
		}
		live := &liveSearcher{handle: handle, searchCfg: searchCfg, logger: opts.Logger}
		searchers[idxCfg.Name] = querycache.NewCachedSearcher(live, opts.ResultCacheSize)
	}

	return &Engine{
		cfg:      cfg,
		registry: registry,
		engine:   transport.NewEngine(searchers),
		logger:   opts.Logger,
	}, nil
}

// Search runs the tokenize -> resolve -> enumerate -> evaluate ->
// terminate procedure against the named index.
//
// limit <= 0 uses the index's configured default (20); offset < 0 is
// clamped to 0.
func (e *Engine) Search(ctx context.Context, indexID, queryText string, limit, offset int) (Result, error) {
	result, err := e.engine.Search(ctx, indexID, queryText, limit, offset)
	if err != nil {
		return Result{}, err
	}
	return Result{
		IDs:         result.IDs,
		Allocations: result.Allocations,
		Truncated:   result.Truncated,
	}, nil
}

// Indexes lists every index this Engine can serve.
func (e *Engine) Indexes() []string {
	return e.engine.Indexes()
}

// Watch runs every index's snapshot watcher until ctx is cancelled or
// one fails; a snapshot whose watcher dies keeps serving queries
// against the last successfully loaded copy.
func (e *Engine) Watch(ctx context.Context) error {
	return e.registry.WatchAll(ctx, e.logger)
}

// Transport returns the underlying named-index router, for embedding
// this Engine behind a transport such as httpapi or mcpserver.
func (e *Engine) Transport() *transport.Engine {
	return e.engine
}

// Config returns the configuration this Engine was opened with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}
