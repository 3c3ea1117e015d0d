package snapshot

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	pickyerrors "github.com/Aman-CERP/picky/internal/errors"
	"github.com/Aman-CERP/picky/internal/posting"

	"github.com/fsnotify/fsnotify"
)

// Handle holds the currently active Store for one index and accepts
// atomic swaps as new snapshots arrive. A query in flight keeps the
// *posting.Store it read via Current() until it finishes — Current never
// blocks and never invalidates a previously returned pointer.
type Handle struct {
	name string
	path string

	current atomic.Pointer[posting.Store]
	breaker *pickyerrors.CircuitBreaker
}

// reloadRetryConfig governs NewHandle's initial load: a dump that's mid
// rewrite when a handle starts up is a transient condition, not a
// permanent failure, so a few short retries ride it out before startup
// gives up.
func reloadRetryConfig() pickyerrors.RetryConfig {
	return pickyerrors.RetryConfig{
		MaxRetries:   3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// NewHandle loads path and returns a Handle ready to serve queries,
// retrying the initial load a few times if it fails.
func NewHandle(ctx context.Context, name, path string) (*Handle, error) {
	h := &Handle{
		name:    name,
		path:    path,
		breaker: pickyerrors.NewCircuitBreaker(name),
	}
	if err := pickyerrors.Retry(ctx, reloadRetryConfig(), h.reload); err != nil {
		return nil, err
	}
	return h, nil
}

// Name returns the index name this handle serves.
func (h *Handle) Name() string { return h.name }

// Current returns the store backing the most recently loaded snapshot.
// Safe for concurrent use; the returned pointer remains valid even after
// a later swap.
func (h *Handle) Current() *posting.Store {
	return h.current.Load()
}

func (h *Handle) reload() error {
	idx, err := Load(h.path, h.name)
	if err != nil {
		return err
	}
	h.current.Store(posting.NewStore(idx))
	return nil
}

// Watch watches the snapshot's directory for a rewritten dump file and
// swaps it in atomically, per the "Index rebuild" behavior: a new
// snapshot replaces the old one without locking the query path. Runs
// until ctx is cancelled or the watcher fails to start; non-fatal reload
// errors are logged and the previous snapshot stays live.
func (h *Handle) Watch(ctx context.Context, log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return pickyerrors.InternalError("failed to start snapshot watcher", err)
	}
	defer w.Close()

	dir := filepath.Dir(h.path)
	if err := w.Add(dir); err != nil {
		return pickyerrors.InternalError("failed to watch snapshot directory "+dir, err)
	}

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(h.path) {
				continue
			}
			if !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("snapshot watcher error", "index", h.name, "error", err)

		case <-reload:
			if err := h.breaker.Execute(h.reload); err != nil {
				if err == pickyerrors.ErrCircuitOpen {
					log.Warn("snapshot reload circuit open, skipping reload", "index", h.name, "path", h.path, "failures", h.breaker.Failures())
					continue
				}
				log.Warn("snapshot reload failed, keeping previous snapshot", "index", h.name, "path", h.path, "error", err)
				continue
			}
			log.Info("snapshot reloaded", "index", h.name, "path", h.path)
		}
	}
}
