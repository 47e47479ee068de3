// Package cache provides a bounded in-memory cache with insertion-order
// eviction, safe for concurrent use.
package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 128

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Cap       int
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithOnEvict registers a callback invoked (under the cache lock) for every
// evicted entry.
func WithOnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) { c.onEvict = fn }
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache evicts the oldest-inserted entry once capacity is exceeded. Lookups do
// not refresh an entry's position, and re-inserting an existing key replaces
// its value in place. Lookup, insert and eviction are atomic under one mutex.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = oldest
	items    map[K]*list.Element
	onEvict  func(K, V)

	hits, misses, evictions uint64
}

// New creates a cache holding at most capacity entries.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[K, V]{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.hits++
		return el.Value.(*entry[K, V]).value, true
	}
	c.misses++
	var zero V
	return zero, false
}

// Put stores value under key and evicts the oldest entries beyond capacity.
// It reports how many entries were evicted.
func (c *Cache[K, V]) Put(key K, value V) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		return 0
	}
	c.items[key] = c.order.PushBack(&entry[K, V]{key: key, value: value})

	evicted := 0
	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		e := c.order.Remove(oldest).(*entry[K, V])
		delete(c.items, e.key)
		c.evictions++
		evicted++
		if c.onEvict != nil {
			c.onEvict(e.key, e.value)
		}
	}
	return evicted
}

// GetOrCompute returns the cached value for key, or computes, stores and
// returns it. compute runs outside the lock; concurrent misses on the same key
// may both compute and the last writer wins.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.Put(key, v)
	return v, false, nil
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Clear drops every entry without counting evictions.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[K]*list.Element, c.capacity)
}

// Stats returns the current counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.order.Len(),
		Cap:       c.capacity,
	}
}
