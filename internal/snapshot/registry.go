package snapshot

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Source names one index's snapshot file on disk.
type Source struct {
	// Name is the index name, matching the name recorded inside the
	// snapshot itself.
	Name string
	// Path is the snapshot database file for this index.
	Path string
}

// Registry holds one Handle per configured index, keyed by name.
type Registry struct {
	handles map[string]*Handle
}

// LoadRegistry loads every source concurrently and returns a Registry once
// all have either succeeded or the first failure is reported; a single bad
// snapshot aborts startup rather than serving a partially loaded fleet.
func LoadRegistry(ctx context.Context, sources []Source) (*Registry, error) {
	handles := make([]*Handle, len(sources))

	g, _ := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			h, err := NewHandle(ctx, src.Name, src.Path)
			if err != nil {
				return err
			}
			handles[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]*Handle, len(handles))
	for _, h := range handles {
		byName[h.Name()] = h
	}
	return &Registry{handles: byName}, nil
}

// Handle returns the named index's handle, or nil if it isn't registered.
func (r *Registry) Handle(name string) *Handle {
	return r.handles[name]
}

// Names returns every registered index name, in unspecified order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	return names
}

// WatchAll fans out one watcher goroutine per registered index, each
// watching its own snapshot directory independently. Returns once every
// watcher has stopped — normally when ctx is cancelled.
func (r *Registry) WatchAll(ctx context.Context, log *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, h := range r.handles {
		h := h
		g.Go(func() error {
			return h.Watch(ctx, log)
		})
	}
	return g.Wait()
}

// SourcesFromDir builds one Source per index assuming the conventional
// layout <dir>/<index>/snapshot.db used by the dump/watch CLI commands.
func SourcesFromDir(dir string, indexNames []string) []Source {
	sources := make([]Source, 0, len(indexNames))
	for _, name := range indexNames {
		sources = append(sources, Source{
			Name: name,
			Path: filepath.Join(dir, name, "snapshot.db"),
		})
	}
	return sources
}
