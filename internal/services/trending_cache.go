package services

import (
	"sync"
	"time"

	"github.com/campusplaced/backend/internal/models"
)

// TrendingCache is a small TTL cache over trending/search listings. The
// clock is injected so expiry is testable, and invalidation is an explicit
// hook rather than ambient module state.
type TrendingCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]trendingEntry
}

type trendingEntry struct {
	experiences []models.Experience
	storedAt    time.Time
}

func NewTrendingCache(ttl time.Duration, now func() time.Time) *TrendingCache {
	if now == nil {
		now = time.Now
	}
	return &TrendingCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]trendingEntry),
	}
}

// Get returns the cached listing for key, or false when absent or expired.
func (c *TrendingCache) Get(key string) ([]models.Experience, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.experiences, true
}

// Set stores a listing under key.
func (c *TrendingCache) Set(key string, experiences []models.Experience) {
	c.mu.Lock()
	c.entries[key] = trendingEntry{experiences: experiences, storedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops every cached listing. Called after writes that change
// what trends.
func (c *TrendingCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]trendingEntry)
	c.mu.Unlock()
}
