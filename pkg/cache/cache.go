package cache

import (
	"time"
)

// Cache is a bounded key/value store with per-entry TTL. Orders are mutable,
// so writers are expected to Remove the touched key.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V, ttl time.Duration)
	Remove(key K)
	Len() int
	Purge()
}
