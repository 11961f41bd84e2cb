// Package lru provides a fixed size LRU cache that is safe for concurrent use
// without locking the cache itself.
//
// The cache engine lives in the simplelru package: a hash index over an
// arena-allocated recency list, with O(1) Get, Add and eviction. It is not
// safe for concurrent use.
//
// Cache wraps one engine in an owner goroutine. Callers talk to it through
// handles; each call sends a command and blocks until the owner has applied
// it, so an Add is visible to the caller's next Get. Handles are cheap to
// Clone and the owner stops when the last one is closed:
//
//	c, err := lru.New[string, int](128)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	c.Add("answer", 42)
//	v, ok, err := c.Get("answer")
//
// Calls on a closed handle return ErrClosed. If the owner goroutine dies
// (for example because an eviction callback panicked), pending and later
// calls return an error wrapping ErrDisconnected instead of blocking.
package lru
