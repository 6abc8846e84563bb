// internal/infra/cache/product_cache_test.go
package cache

import (
	"testing"
	"time"

	productdom "stockroom/internal/domain/product"
)

func TestProductCacheTTL(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := NewProductCache(5 * time.Minute)
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Fatal("empty cache must miss")
	}

	list := []productdom.Product{{ID: "p1", Name: "Rice", Stock: 2}}
	c.Set(list)

	got, ok := c.Get()
	if !ok || len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("fresh entry: got (%v, %v)", got, ok)
	}

	// TTL ちょうどで失効する（now - storedAt >= ttl はミス）
	now = now.Add(5*time.Minute - time.Second)
	if _, ok := c.Get(); !ok {
		t.Fatal("entry just under the TTL must hit")
	}
	now = now.Add(time.Second)
	if _, ok := c.Get(); ok {
		t.Fatal("entry at the TTL must miss")
	}
}

func TestProductCacheInvalidate(t *testing.T) {
	c := NewProductCache(5 * time.Minute)
	c.Set([]productdom.Product{{ID: "p1", Name: "Rice"}})

	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Fatal("invalidated cache must miss")
	}
}

func TestProductCacheCopiesOut(t *testing.T) {
	c := NewProductCache(5 * time.Minute)
	c.Set([]productdom.Product{{ID: "p1", Name: "Rice"}})

	got, ok := c.Get()
	if !ok {
		t.Fatal("expected hit")
	}
	got[0].Name = "mutated"

	again, _ := c.Get()
	if again[0].Name != "Rice" {
		t.Fatalf("cache content leaked: %q", again[0].Name)
	}
}

func TestProductCacheNilReceiver(t *testing.T) {
	var c *ProductCache
	if _, ok := c.Get(); ok {
		t.Fatal("nil cache must miss")
	}
	c.Set(nil)
	c.Invalidate()
}
