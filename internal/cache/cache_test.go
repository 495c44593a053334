package cache

import (
	"testing"
	"time"
)

func TestGetSetEvict(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set("a", 42)
	if v, ok := c.Get("a"); !ok || v.(int) != 42 {
		t.Errorf("got %v %v, want 42 true", v, ok)
	}

	c.Set("a", 43)
	if v, _ := c.Get("a"); v.(int) != 43 {
		t.Error("set must overwrite")
	}

	c.Evict("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after evict")
	}
	c.Evict("a") // idempotent
}

func TestTTLExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	base := time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("a", "fresh")
	now = base.Add(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry expired early")
	}
	now = base.Add(61 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestSizeBoundEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now more recent than b
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should survive")
	}
}
