package addin

import (
	"sync"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// DefaultCacheTTL is how long a fetched signature stays valid before
// the add-in asks the service again.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	sig       *models.RenderedSignature
	expiresAt time.Time
}

// Cache holds rendered signatures per variant for the duration of a
// compose session. Fallback signatures are never stored here.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache) Get(key string) (*models.RenderedSignature, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.sig, true
}

func (c *Cache) Put(key string, sig *models.RenderedSignature) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		sig:       sig,
		expiresAt: c.now().Add(c.ttl),
	}
}
