// Package contentcache bounds the cost of detail-view requests: a
// fully-decoded session body (every record, in order) is expensive to
// keep around for every session, so only recently and frequently viewed
// ones stay resident. Grounded on codeNERD's internal/world.FileCache
// mtime-keyed invalidation idiom, generalized to an in-memory LRU with a
// byte budget and idle eviction (spec §4.5) instead of on-disk JSON.
package contentcache

import (
	"container/list"
	"sync"
	"time"

	"ccboard/internal/logging"
)

// Content is a fully-parsed session body.
type Content struct {
	Path    string
	Records []map[string]interface{}
	Bytes   int64
}

type entry struct {
	content  *Content
	lastUsed time.Time
}

// Cache is a bounded-size, time-expiring content cache.
type Cache struct {
	mu         sync.Mutex
	budget     int64
	idle       time.Duration
	usedBytes  int64
	order      *list.List // front = most recently used
	index      map[string]*list.Element
}

// New creates a Cache bounded by budgetBytes total size, evicting entries
// idle longer than idle.
func New(budgetBytes int64, idle time.Duration) *Cache {
	return &Cache{
		budget: budgetBytes,
		idle:   idle,
		order:  list.New(),
		index:  make(map[string]*list.Element),
	}
}

// Get returns the cached content for path if present and not expired by
// idle time, bumping its recency.
func (c *Cache) Get(path string) (*Content, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[path]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if time.Since(e.lastUsed) > c.idle {
		c.removeElement(el)
		return nil, false
	}
	e.lastUsed = time.Now()
	c.order.MoveToFront(el)
	return e.content, true
}

// Put inserts or replaces the entry for path, evicting least-recently-used
// entries until the cache is back within budget.
func (c *Cache) Put(path string, content *Content) {
	log := logging.Get(logging.CategoryContentCache)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[path]; ok {
		c.removeElement(el)
	}

	el := c.order.PushFront(&entry{content: content, lastUsed: time.Now()})
	c.index[path] = el
	c.usedBytes += content.Bytes

	for c.usedBytes > c.budget && c.order.Len() > 0 {
		back := c.order.Back()
		evicted := back.Value.(*entry)
		log.Debugw("evicting content cache entry over budget", "path", evicted.content.Path)
		c.removeElement(back)
	}
}

// EvictIdle drops every entry that has exceeded the idle threshold. A
// caller may run this periodically; Get also self-evicts lazily.
func (c *Cache) EvictIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toEvict []*list.Element
	for el := c.order.Back(); el != nil; el = el.Prev() {
		e := el.Value.(*entry)
		if time.Since(e.lastUsed) > c.idle {
			toEvict = append(toEvict, el)
		}
	}
	for _, el := range toEvict {
		c.removeElement(el)
	}
}

// removeElement assumes c.mu is already held.
func (c *Cache) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	c.usedBytes -= e.content.Bytes
	delete(c.index, e.content.Path)
	c.order.Remove(el)
}

// Len returns the number of resident entries (for tests/metrics).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
