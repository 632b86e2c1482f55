package metrics

import (
	"sync"
	"sync/atomic"
)

// Registry holds named atomic counters mutated from concurrent pipeline
// tasks. The map is guarded only for counter creation; increments are
// lock-free.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]*atomic.Int64)}
}

func (r *Registry) counter(name string) *atomic.Int64 {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c = &atomic.Int64{}
	r.counters[name] = c
	return c
}

func (r *Registry) Inc(name string) {
	r.counter(name).Add(1)
}

func (r *Registry) Get(name string) int64 {
	return r.counter(name).Load()
}

// Snapshot copies all counters for the metrics endpoint.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int64, len(r.counters))
	for name, c := range r.counters {
		out[name] = c.Load()
	}
	return out
}
