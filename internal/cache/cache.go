package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is the derived-result cache used by the readiness service. Entries
// are write-through from the caller and invalidated on new attempts.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Evict(key string)
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// MemoryCache is a TTL plus size-bounded in-process cache with LRU eviction.
// Safe for concurrent use.
type MemoryCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	maxItems int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	now      func() time.Time
}

func NewMemoryCache(ttl time.Duration, maxItems int) *MemoryCache {
	if maxItems <= 0 {
		maxItems = 1024
	}
	return &MemoryCache{
		ttl:      ttl,
		maxItems: maxItems,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeLocked(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = c.now().Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry{key: key, value: value, expiresAt: c.now().Add(c.ttl)})
	c.items[key] = el

	if c.order.Len() > c.maxItems {
		c.removeLocked(c.order.Back())
	}
}

func (c *MemoryCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
}

func (c *MemoryCache) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	e := el.Value.(*entry)
	delete(c.items, e.key)
	c.order.Remove(el)
}
