package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count   int64
	expires time.Time
}

// MemoryCounters is a process-local counter store used when redis is not
// configured, and in tests. Counters expire lazily on access.
type MemoryCounters struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryCounters() *MemoryCounters {
	return &MemoryCounters{entries: make(map[string]*memoryEntry), now: time.Now}
}

func (m *MemoryCounters) Incr(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.After(e.expires) {
		e = &memoryEntry{expires: now.Add(expiry)}
		m.entries[key] = e
	}
	e.count++
	// Opportunistic sweep so abandoned windows do not pile up.
	if len(m.entries) > 4096 {
		for k, v := range m.entries {
			if now.After(v.expires) {
				delete(m.entries, k)
			}
		}
	}
	return e.count, nil
}

var _ CounterStore = (*MemoryCounters)(nil)
