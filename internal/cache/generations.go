package cache

import "sync"

// Generations counts invalidations per page key. A reader that loaded a page
// while the key was invalidated must not write its result back, or the stale
// page would be served until the TTL runs out.
//
// The counters are process-local: with a shared redis cache every instance
// still relies on its own /revalidate call to drop pages.
type Generations struct {
	mu sync.Mutex
	m  map[string]uint64
}

func NewGenerations() *Generations {
	return &Generations{m: make(map[string]uint64)}
}

// Current returns the key's counter. A nil receiver always returns 0.
func (g *Generations) Current(key string) uint64 {
	if g == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m[key]
}

// Bump advances the counters. Callers delete the cached entries after Bump
// returns.
func (g *Generations) Bump(keys ...string) {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, k := range keys {
		g.m[k]++
	}
}

// StoreIf runs store only while key is still at generation seen. It holds the
// lock for the duration of store so a concurrent Bump waits for it.
func (g *Generations) StoreIf(key string, seen uint64, store func()) bool {
	if g == nil {
		store()
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m[key] != seen {
		return false
	}
	store()
	return true
}

// PageOption configures the page-cache readers and invalidators.
type PageOption func(o *pageOptions)

type pageOptions struct {
	gens *Generations
}

// WithGenerations shares invalidation counters between a CachedReader and the
// invalidators that drop its pages.
func WithGenerations(g *Generations) PageOption {
	return func(o *pageOptions) {
		o.gens = g
	}
}

func applyPageOptions(opts []PageOption) pageOptions {
	var o pageOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
