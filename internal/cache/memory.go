package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend is an in-process LRU with per-entry expiry.
// It backs the local tier in front of Redis and runs alone when Redis is disabled.
type MemoryBackend struct {
	lru    *expirable.LRU[string, memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

// NewMemoryBackend creates an LRU holding at most size entries (0 means unbounded).
// maxTTL caps every entry's lifetime; 0 leaves only the per-entry TTL.
func NewMemoryBackend(size int, maxTTL time.Duration) *MemoryBackend {
	return &MemoryBackend{
		lru:    expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		maxTTL: maxTTL,
		now:    time.Now,
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.lru.Remove(key)
		return nil, ErrMiss
	}
	return e.value, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.maxTTL > 0 && (ttl <= 0 || ttl > m.maxTTL) {
		ttl = m.maxTTL
	}
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.lru.Remove(k)
	}
	return nil
}

func (m *MemoryBackend) DeletePattern(_ context.Context, pattern string) (int, error) {
	if !hasWildcard(pattern) {
		if m.lru.Remove(pattern) {
			return 1, nil
		}
		return 0, nil
	}

	n := 0
	for _, k := range m.lru.Keys() {
		if matchGlob(pattern, k) && m.lru.Remove(k) {
			n++
		}
	}
	return n, nil
}

// Len returns the number of entries, including ones whose per-entry TTL has lapsed.
func (m *MemoryBackend) Len() int {
	return m.lru.Len()
}
