// Package cache keeps raw reasoning service responses addressed by a hash of
// template, prompt and candidate name, so identical requests are never paid for twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/repository"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store is the persistence used by the cache
type Store interface {
	Get(ctx context.Context, key string, notBefore time.Time) (*domain.CacheEntry, error)
	Put(ctx context.Context, e domain.CacheEntry) error
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
	Stats(ctx context.Context) (repository.CacheStats, error)
}

// Cache is a TTL cache over Store with hit and miss accounting
type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache counters of the current process and the stored totals
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Entries    int64 `json:"entries"`
	StoredHits int64 `json:"stored_hits"`
	TTLSeconds int64 `json:"ttl_seconds"`
}

// New makes a cache with the given ttl, default ttl is 7 days
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// Key derives the content address of a request
func Key(templateID, prompt, name string) string {
	h := sha256.New()
	h.Write([]byte(templateID))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write([]byte(name))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a live entry for key. Absent and expired entries are misses, not errors.
func (c *Cache) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	e, err := c.store.Get(ctx, key, c.now().Add(-c.ttl))
	if errors.Is(err, repository.ErrNotFound) {
		c.misses.Add(1)
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	c.hits.Add(1)
	return *e, true, nil
}

// Put stores the entry, stamping creation time if empty
func (c *Cache) Put(ctx context.Context, e domain.CacheEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = c.now()
	}
	if err := c.store.Put(ctx, e); err != nil {
		return fmt.Errorf("cache put %s: %w", e.Key, err)
	}
	return nil
}

// Purge removes expired entries
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	removed, err := c.store.Purge(ctx, c.now().Add(-c.ttl))
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	if removed > 0 {
		log.Printf("[INFO] purged %d expired cache entries", removed)
	}
	return removed, nil
}

// Stats returns process counters with stored totals
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	st, err := c.store.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: st.Entries, StoredHits: st.Hits,
		TTLSeconds: int64(c.ttl.Seconds())}, nil
}
