package simplelru

import (
	"errors"

	"github.com/venkatsvpr/golang-lru/v3/internal"
)

// ErrInvalidSize is returned by NewLRU for a non-positive size.
var ErrInvalidSize = errors.New("must provide a positive size")

// EvictCallback is used to get a callback when a cache entry is evicted
type EvictCallback[K comparable, V any] func(key K, value V)

// LRU implements a non-thread safe fixed size LRU cache
type LRU[K comparable, V any] struct {
	size      int
	evictList *internal.List[K, V]
	items     map[K]int
	onEvict   EvictCallback[K, V]
}

// NewLRU constructs an LRU of the given size
func NewLRU[K comparable, V any](size int, onEvict EvictCallback[K, V]) (*LRU[K, V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	c := &LRU[K, V]{
		size:      size,
		evictList: internal.NewList[K, V](size),
		items:     make(map[K]int, size),
		onEvict:   onEvict,
	}
	return c, nil
}

// Purge is used to completely clear the cache.
func (c *LRU[K, V]) Purge() {
	if c.onEvict != nil {
		for i := c.evictList.Back(); i != internal.Nil; i = c.evictList.Prev(i) {
			c.onEvict(c.evictList.Key(i), c.evictList.Value(i))
		}
	}
	clear(c.items)
	c.evictList.Init()
}

// Add adds a value to the cache. Returns true if an eviction occurred.
//
// Adding an existing key replaces its value and marks it most recently used.
// When the cache is full the oldest entry is evicted before the new one is
// linked, so Len never exceeds Cap.
func (c *LRU[K, V]) Add(key K, value V) (evicted bool) {
	// Check for existing item
	if i, ok := c.items[key]; ok {
		c.evictList.SetValue(i, value)
		c.evictList.MoveToFront(i)
		return false
	}

	if c.evictList.Len() >= c.size {
		c.removeOldest()
		evicted = true
	}

	c.items[key] = c.evictList.PushFront(key, value)
	return evicted
}

// Get looks up a key's value from the cache and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	i, ok := c.items[key]
	if !ok {
		return value, false
	}
	c.evictList.MoveToFront(i)
	return c.evictList.Value(i), true
}

// Contains checks if a key is in the cache, without updating the recent-ness
// or deleting it for being stale.
func (c *LRU[K, V]) Contains(key K) (ok bool) {
	_, ok = c.items[key]
	return ok
}

// Peek returns the key value (or undefined if not found) without updating
// the "recently used"-ness of the key.
func (c *LRU[K, V]) Peek(key K) (value V, ok bool) {
	i, ok := c.items[key]
	if !ok {
		return value, false
	}
	return c.evictList.Value(i), true
}

// Remove removes the provided key from the cache, returning if the
// key was contained.
func (c *LRU[K, V]) Remove(key K) (present bool) {
	if i, ok := c.items[key]; ok {
		c.removeElement(i)
		return true
	}
	return false
}

// RemoveOldest removes the oldest item from the cache.
func (c *LRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	if i := c.evictList.Back(); i != internal.Nil {
		key, value = c.removeElement(i)
		return key, value, true
	}
	return key, value, false
}

// GetOldest returns the oldest entry
func (c *LRU[K, V]) GetOldest() (key K, value V, ok bool) {
	if i := c.evictList.Back(); i != internal.Nil {
		return c.evictList.Key(i), c.evictList.Value(i), true
	}
	return key, value, false
}

// Keys returns a slice of the keys in the cache, from oldest to newest.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.evictList.Len())
	for i := c.evictList.Back(); i != internal.Nil; i = c.evictList.Prev(i) {
		keys = append(keys, c.evictList.Key(i))
	}
	return keys
}

// KeysByRecency returns a slice of the keys in the cache, from newest to
// oldest. The first key is the next one to survive an eviction, the last is
// the next one to go.
func (c *LRU[K, V]) KeysByRecency() []K {
	keys := make([]K, 0, c.evictList.Len())
	for i := c.evictList.Front(); i != internal.Nil; i = c.evictList.Next(i) {
		keys = append(keys, c.evictList.Key(i))
	}
	return keys
}

// Values returns a slice of the values in the cache, from oldest to newest.
func (c *LRU[K, V]) Values() []V {
	values := make([]V, 0, c.evictList.Len())
	for i := c.evictList.Back(); i != internal.Nil; i = c.evictList.Prev(i) {
		values = append(values, c.evictList.Value(i))
	}
	return values
}

// Len returns the number of items in the cache.
func (c *LRU[K, V]) Len() int {
	return c.evictList.Len()
}

// Cap returns the capacity of the cache.
func (c *LRU[K, V]) Cap() int {
	return c.size
}

// Resize changes the cache size. A non-positive size is ignored.
func (c *LRU[K, V]) Resize(size int) (evicted int) {
	if size <= 0 {
		return 0
	}
	diff := c.Len() - size
	if diff < 0 {
		diff = 0
	}
	for i := 0; i < diff; i++ {
		c.removeOldest()
	}
	c.size = size
	return diff
}

// removeOldest removes the oldest item from the cache.
func (c *LRU[K, V]) removeOldest() {
	if i := c.evictList.Back(); i != internal.Nil {
		c.removeElement(i)
	}
}

// removeElement drops i from both the index and the recency list.
func (c *LRU[K, V]) removeElement(i int) (K, V) {
	key, value := c.evictList.Remove(i)
	delete(c.items, key)
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
	return key, value
}
