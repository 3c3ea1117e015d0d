// Package pool provides the type-scoped object pool transient per-query
// scratch structures (intersection work buffers, allocation frontiers) are
// drawn from to avoid repeated allocation on the hot query path.
package pool

import (
	"reflect"
	"sync"
)

// Pool is a single type's obtain/release/release_all scope: obtain returns
// a recycled instance if one is free, otherwise a freshly constructed one;
// release returns a live instance to the free list; release_all drains
// every still-live instance back to free in one call.
type Pool[T any] struct {
	mu   sync.Mutex
	free []*T
	live map[*T]struct{}
}

func newPool[T any]() *Pool[T] {
	return &Pool[T]{live: make(map[*T]struct{})}
}

// Obtain returns a recycled instance if the free list is non-empty,
// otherwise calls factory for a fresh one. The returned instance is
// tracked as live until Release or ReleaseAll reclaims it.
func (p *Pool[T]) Obtain(factory func() *T) *T {
	p.mu.Lock()
	defer p.mu.Unlock()

	var item *T
	if n := len(p.free); n > 0 {
		item = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		item = factory()
	}
	p.live[item] = struct{}{}
	return item
}

// Release returns item to the free list. Releasing an instance not
// currently tracked as live is a no-op.
func (p *Pool[T]) Release(item *T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.live[item]; !ok {
		return
	}
	delete(p.live, item)
	p.free = append(p.free, item)
}

// ReleaseAll drains every currently-live instance back to the free list.
func (p *Pool[T]) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for item := range p.live {
		p.free = append(p.free, item)
	}
	p.live = make(map[*T]struct{})
}

// Free reports how many instances are currently sitting in the free list.
func (p *Pool[T]) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

var (
	registryMu sync.Mutex
	registry   = make(map[reflect.Type]any)
)

// poolFor returns the process-wide Pool scoped to T, creating it on first
// use.
func poolFor[T any]() *Pool[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()

	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := registry[key]; ok {
		return existing.(*Pool[T])
	}
	p := newPool[T]()
	registry[key] = p
	return p
}

// Obtain draws an instance of T from its type-scoped pool.
func Obtain[T any](factory func() *T) *T {
	return poolFor[T]().Obtain(factory)
}

// Release returns item to T's type-scoped free list.
func Release[T any](item *T) {
	poolFor[T]().Release(item)
}

// ReleaseAll drains every live instance of T back to free. It does not
// affect any other type's scope.
func ReleaseAll[T any]() {
	poolFor[T]().ReleaseAll()
}

// DrainAll clears every type's scope process-wide — every pool forgets
// its free and live instances. Intended for use between test runs and at
// shutdown, not on the query hot path.
func DrainAll() {
	registryMu.Lock()
	defer registryMu.Unlock()
	for t := range registry {
		delete(registry, t)
	}
}
