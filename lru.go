package lru

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/jedisct1/dlog"

	"github.com/venkatsvpr/golang-lru/v3/simplelru"
)

var (
	// ErrClosed is returned by calls made through a handle after its Close.
	ErrClosed = errors.New("lru: cache handle is closed")

	// ErrDisconnected is returned when the owner goroutine stopped before it
	// answered a request. Errors returned for a panicking owner wrap it.
	ErrDisconnected = errors.New("lru: cache owner has stopped")
)

// Cache is a thread-safe fixed size LRU cache.
//
// All state lives in a simplelru.LRU owned by a single goroutine. Every call
// sends a command to that goroutine and blocks until its reply arrives, so
// the engine is never touched by more than one goroutine and needs no lock.
// A Cache is one handle onto the owner; Clone makes more, and the owner stops
// once every handle has been closed. A handle that becomes unreachable without
// Close is released when it is garbage collected.
type Cache[K comparable, V any] struct {
	o       *owner[K, V]
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

type opcode uint8

const (
	getOp opcode = iota
	addOp
	peekOp
	containsOp
	removeOp
	keysOp
	recencyOp
	lenOp
	purgeOp
	resizeOp
	statsOp
)

var opNames = [...]string{
	getOp:      "get",
	addOp:      "add",
	peekOp:     "peek",
	containsOp: "contains",
	removeOp:   "remove",
	keysOp:     "keys",
	recencyOp:  "keys_by_recency",
	lenOp:      "len",
	purgeOp:    "purge",
	resizeOp:   "resize",
	statsOp:    "stats",
}

func (op opcode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("opcode(%d)", op)
}

// command is one request to the owner. reply has capacity 1 so the owner
// never blocks on a caller that has given up.
type command[K comparable, V any] struct {
	op    opcode
	key   K
	value V
	size  int
	reply chan result[K, V]
}

type result[K comparable, V any] struct {
	value V
	ok    bool
	n     int
	keys  []K
	stats Stats
}

// owner is shared by every handle. lru and stats are only touched by run.
type owner[K comparable, V any] struct {
	requests chan command[K, V]
	quit     chan struct{}
	done     chan struct{}
	refs     atomic.Int64
	err      error // written before done is closed

	lru     *simplelru.LRU[K, V]
	stats   Stats
	metrics *Metrics
}

// New creates an LRU of the given size and starts its owner goroutine.
func New[K comparable, V any](size int, opts ...Option[K, V]) (*Cache[K, V], error) {
	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(&cfg)
	}

	lru, err := simplelru.NewLRU[K, V](size, cfg.onEvict)
	if err != nil {
		return nil, err
	}
	o := &owner[K, V]{
		requests: make(chan command[K, V], cfg.queueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		lru:      lru,
		metrics:  cfg.metrics,
	}
	o.refs.Store(1)
	go o.run()
	return newHandle(o), nil
}

// newHandle wraps o in a handle holding one of its references.
func newHandle[K comparable, V any](o *owner[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{o: o}
	c.cleanup = runtime.AddCleanup(c, (*owner[K, V]).release, o)
	return c
}

// release drops one handle reference, stopping the owner on the last one.
func (o *owner[K, V]) release() {
	if o.refs.Add(-1) == 0 {
		close(o.quit)
	}
}

// NewWithEvict constructs a fixed size cache with the given eviction
// callback. The callback runs on the owner goroutine.
func NewWithEvict[K comparable, V any](size int, onEvicted func(key K, value V)) (*Cache[K, V], error) {
	return New[K, V](size, WithEvict[K, V](onEvicted))
}

func (o *owner[K, V]) run() {
	defer close(o.done)
	defer func() {
		if r := recover(); r != nil {
			o.err = fmt.Errorf("%w: panic: %v", ErrDisconnected, r)
			dlog.Criticalf("lru: owner stopped after panic: %v", r)
		}
	}()

	dlog.Debugf("lru: owner started (size %d, queue %d)", o.lru.Cap(), cap(o.requests))
	for {
		select {
		case <-o.quit:
			dlog.Debugf("lru: owner stopped, dropping %d entries", o.lru.Len())
			return
		case cmd := <-o.requests:
			cmd.reply <- o.apply(cmd)
		}
	}
}

func (o *owner[K, V]) apply(cmd command[K, V]) (res result[K, V]) {
	switch cmd.op {
	case getOp:
		res.value, res.ok = o.lru.Get(cmd.key)
		if res.ok {
			o.stats.Hits++
			o.metrics.hit()
		} else {
			o.stats.Misses++
			o.metrics.miss()
		}
	case addOp:
		res.ok = o.lru.Add(cmd.key, cmd.value)
		o.stats.Adds++
		o.metrics.added()
		if res.ok {
			o.stats.Evictions++
			o.metrics.evicted(1)
		}
	case peekOp:
		res.value, res.ok = o.lru.Peek(cmd.key)
	case containsOp:
		res.ok = o.lru.Contains(cmd.key)
	case removeOp:
		res.ok = o.lru.Remove(cmd.key)
	case keysOp:
		res.keys = o.lru.Keys()
	case recencyOp:
		res.keys = o.lru.KeysByRecency()
	case lenOp:
		res.n = o.lru.Len()
	case purgeOp:
		o.lru.Purge()
	case resizeOp:
		res.n = o.lru.Resize(cmd.size)
		o.stats.Evictions += uint64(res.n)
		o.metrics.evicted(res.n)
	case statsOp:
		res.stats = o.stats
	}
	o.metrics.setSize(o.lru.Len())
	return res
}

// call hands cmd to the owner and waits for the reply.
func (c *Cache[K, V]) call(ctx context.Context, cmd command[K, V]) (res result[K, V], err error) {
	if c.closed.Load() {
		return res, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	o := c.o
	cmd.reply = make(chan result[K, V], 1)
	defer o.metrics.request(cmd.op, time.Now())

	select {
	case o.requests <- cmd:
	case <-o.done:
		return res, c.disconnected()
	case <-ctx.Done():
		return res, ctx.Err()
	}

	select {
	case res = <-cmd.reply:
		return res, nil
	case <-o.done:
		// the reply may have been sent just before the owner stopped
		select {
		case res = <-cmd.reply:
			return res, nil
		default:
		}
		return res, c.disconnected()
	case <-ctx.Done():
		return res, ctx.Err()
	}
}

func (c *Cache[K, V]) disconnected() error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.o.err != nil {
		return c.o.err
	}
	return ErrDisconnected
}

// Clone returns a new handle onto the same cache. Clone must not race with
// Close on the same handle; cloning a closed handle yields a closed handle.
func (c *Cache[K, V]) Clone() *Cache[K, V] {
	if c.closed.Load() {
		clone := &Cache[K, V]{o: c.o}
		clone.closed.Store(true)
		return clone
	}
	c.o.refs.Add(1)
	return newHandle(c.o)
}

// Close releases this handle. The owner goroutine stops, dropping the cached
// entries, when the last handle is closed. Close is safe to call repeatedly.
func (c *Cache[K, V]) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cleanup.Stop()
	c.o.release()
	return nil
}

// Done is closed once the owner goroutine has stopped.
func (c *Cache[K, V]) Done() <-chan struct{} {
	return c.o.done
}

// Err reports why the owner goroutine stopped. It is nil while the owner is
// running and after an orderly shutdown.
func (c *Cache[K, V]) Err() error {
	select {
	case <-c.o.done:
		return c.o.err
	default:
		return nil
	}
}

// Get looks up a key's value from the cache.
func (c *Cache[K, V]) Get(key K) (value V, ok bool, err error) {
	return c.GetContext(context.Background(), key)
}

// GetContext is Get bounded by ctx.
func (c *Cache[K, V]) GetContext(ctx context.Context, key K) (value V, ok bool, err error) {
	res, err := c.call(ctx, command[K, V]{op: getOp, key: key})
	return res.value, res.ok, err
}

// Add adds a value to the cache. Returns true if an eviction occurred. The
// value has been applied by the time Add returns without error.
func (c *Cache[K, V]) Add(key K, value V) (evicted bool, err error) {
	return c.AddContext(context.Background(), key, value)
}

// AddContext is Add bounded by ctx. When ctx ends after the command was
// queued, the add may still be applied.
func (c *Cache[K, V]) AddContext(ctx context.Context, key K, value V) (evicted bool, err error) {
	res, err := c.call(ctx, command[K, V]{op: addOp, key: key, value: value})
	return res.ok, err
}

// Peek returns the key value (or undefined if not found) without updating
// the "recently used"-ness of the key.
func (c *Cache[K, V]) Peek(key K) (value V, ok bool, err error) {
	res, err := c.call(context.Background(), command[K, V]{op: peekOp, key: key})
	return res.value, res.ok, err
}

// Contains checks if a key is in the cache, without updating the
// recent-ness or deleting it for being stale.
func (c *Cache[K, V]) Contains(key K) (bool, error) {
	res, err := c.call(context.Background(), command[K, V]{op: containsOp, key: key})
	return res.ok, err
}

// Remove removes the provided key from the cache.
func (c *Cache[K, V]) Remove(key K) (present bool, err error) {
	res, err := c.call(context.Background(), command[K, V]{op: removeOp, key: key})
	return res.ok, err
}

// Keys returns a slice of the keys in the cache, from oldest to newest.
func (c *Cache[K, V]) Keys() ([]K, error) {
	res, err := c.call(context.Background(), command[K, V]{op: keysOp})
	return res.keys, err
}

// KeysByRecency returns a slice of the keys in the cache, from newest to
// oldest.
func (c *Cache[K, V]) KeysByRecency() ([]K, error) {
	res, err := c.call(context.Background(), command[K, V]{op: recencyOp})
	return res.keys, err
}

// Len returns the number of items in the cache.
func (c *Cache[K, V]) Len() (int, error) {
	res, err := c.call(context.Background(), command[K, V]{op: lenOp})
	return res.n, err
}

// Purge is used to completely clear the cache.
func (c *Cache[K, V]) Purge() error {
	_, err := c.call(context.Background(), command[K, V]{op: purgeOp})
	return err
}

// Resize changes the cache size, returning the number of entries evicted.
// A non-positive size is ignored.
func (c *Cache[K, V]) Resize(size int) (evicted int, err error) {
	res, err := c.call(context.Background(), command[K, V]{op: resizeOp, size: size})
	return res.n, err
}

// Stats returns the counters collected by the owner goroutine.
func (c *Cache[K, V]) Stats() (Stats, error) {
	res, err := c.call(context.Background(), command[K, V]{op: statsOp})
	return res.stats, err
}
