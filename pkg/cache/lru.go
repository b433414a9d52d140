package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"tgstore/pkg/metric"
)

type LRUCache[K comparable, V any] struct {
	cache     map[K]*list.Element
	lruList   *list.List
	mutex     sync.Mutex
	metrics   metric.Cache
	cacheType string

	capacity int
}

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

func NewLRUCache[K comparable, V any](
	capacity int,
	cacheType string,
	metrics metric.Cache,
) (*LRUCache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache.NewLRUCache: capacity must be positive, got %d", capacity)
	}

	return &LRUCache[K, V]{
		capacity:  capacity,
		cacheType: cacheType,
		cache:     make(map[K]*list.Element),
		lruList:   list.New(),
		metrics:   metrics,
	}, nil
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mutex.Lock()
	defer c.mutex.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		c.metrics.Miss(c.cacheType)
		return zero, false
	}

	ent := elem.Value.(*entry[K, V])
	if !ent.expires.IsZero() && time.Now().After(ent.expires) {
		c.removeElement(elem, "expired")
		c.metrics.Miss(c.cacheType)
		return zero, false
	}

	c.lruList.MoveToFront(elem)
	c.metrics.Hit(c.cacheType)

	return ent.value, true
}

func (c *LRUCache[K, V]) Put(key K, value V, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if elem, ok := c.cache[key]; ok {
		ent := elem.Value.(*entry[K, V])
		c.lruList.MoveToFront(elem)
		ent.value = value
		ent.expires = expires
		return
	}

	if c.lruList.Len() >= c.capacity {
		if oldest := c.lruList.Back(); oldest != nil {
			c.removeElement(oldest, "lru")
		}
	}

	e := &entry[K, V]{
		key:     key,
		value:   value,
		expires: expires,
	}
	c.cache[key] = c.lruList.PushFront(e)
}

// Remove drops the entry for key, if present. Called by writers so stale
// copies never outlive an update.
func (c *LRUCache[K, V]) Remove(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.removeElement(elem, "invalidated")
	}
}

func (c *LRUCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.lruList.Len()
}

func (c *LRUCache[K, V]) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.lruList.Init()
	clear(c.cache)
}

func (c *LRUCache[K, V]) removeElement(elem *list.Element, reason string) {
	c.lruList.Remove(elem)
	ent := elem.Value.(*entry[K, V])
	delete(c.cache, ent.key)
	c.metrics.Eviction(c.cacheType, reason)
}
