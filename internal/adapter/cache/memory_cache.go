package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a MemoryCache built without an explicit cap
const DefaultMaxEntries = 1000

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCache is a process-local cache with per-entry expiry and a size cap
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates an empty in-memory cache holding at most
// DefaultMaxEntries entries
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithLimit(DefaultMaxEntries)
}

// NewMemoryCacheWithLimit creates an empty in-memory cache holding at most
// maxEntries entries; zero or less removes the cap
func NewMemoryCacheWithLimit(maxEntries int) *MemoryCache {
	return &MemoryCache{
		items:      make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached value unless it has expired
func (m *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return "", false
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		if current, still := m.items[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

// Set stores value under key; a zero ttl keeps it until evicted.
// When the cache is full, expired entries go first, then the entry closest
// to expiry.
func (m *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	now := m.now()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists && m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		if m.removeExpiredLocked(now) == 0 {
			m.evictOneLocked()
		}
	}

	m.items[key] = entry
	return nil
}

// CleanExpired removes every expired entry and returns how many were removed
func (m *MemoryCache) CleanExpired() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.removeExpiredLocked(now)
}

// Len returns the number of stored entries, expired ones included
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryCache) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, entry := range m.items {
		if entry.expired(now) {
			delete(m.items, key)
			removed++
		}
	}
	return removed
}

// evictOneLocked drops the entry that expires first; entries without expiry go last
func (m *MemoryCache) evictOneLocked() {
	var victim string
	var victimExpiry time.Time
	found := false

	for key, entry := range m.items {
		switch {
		case !found:
		case entry.expiresAt.IsZero():
			continue
		case victimExpiry.IsZero() || entry.expiresAt.Before(victimExpiry):
		default:
			continue
		}
		victim, victimExpiry, found = key, entry.expiresAt, true
	}

	if found {
		delete(m.items, victim)
	}
}
