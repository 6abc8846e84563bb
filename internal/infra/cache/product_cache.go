// internal/infra/cache/product_cache.go
package cache

import (
	"sync"
	"time"

	productdom "stockroom/internal/domain/product"
)

// DefaultTTL is how long a cached product list stays fresh.
const DefaultTTL = 5 * time.Minute

// ProductCache is a single-process TTL cache for the full product list.
// It is an optimization for the initial read only — the live subscriptions
// remain the source of updates — so every mutating operation must call
// Invalidate.
type ProductCache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	storedAt time.Time
	products []productdom.Product
	valid    bool
}

func NewProductCache(ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductCache{ttl: ttl, now: time.Now}
}

// Get returns the cached list and true only when an entry exists and is
// younger than the TTL. A stale entry is treated as a miss regardless of
// its content.
func (c *ProductCache) Get() ([]productdom.Product, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid || c.now().Sub(c.storedAt) >= c.ttl {
		return nil, false
	}
	out := make([]productdom.Product, len(c.products))
	copy(out, c.products)
	return out, true
}

// Set stores the list with a fresh write timestamp.
func (c *ProductCache) Set(products []productdom.Product) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = make([]productdom.Product, len(products))
	copy(c.products, products)
	c.storedAt = c.now()
	c.valid = true
}

// Invalidate drops the entry so the next read goes to the store.
func (c *ProductCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = nil
	c.valid = false
}
