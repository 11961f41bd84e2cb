package lru

const (
	// DefaultQueueSize is the default number of requests that may wait for
	// the owner goroutine before senders block.
	DefaultQueueSize = 1024
)

type config[K comparable, V any] struct {
	onEvict   func(K, V)
	queueSize int
	metrics   *Metrics
}

func defaultConfig[K comparable, V any]() config[K, V] {
	return config[K, V]{
		queueSize: DefaultQueueSize,
	}
}

// Option configures a Cache.
type Option[K comparable, V any] func(*config[K, V])

// WithEvict sets a callback invoked for every entry that leaves the cache,
// whether evicted, removed or purged. It runs on the owner goroutine, so it
// must not call back into the cache. A panic in it stops the owner.
func WithEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *config[K, V]) {
		c.onEvict = fn
	}
}

// WithQueueSize sets the request queue depth. Non-positive values are ignored.
func WithQueueSize[K comparable, V any](n int) Option[K, V] {
	return func(c *config[K, V]) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithMetrics records request and cache metrics into m.
func WithMetrics[K comparable, V any](m *Metrics) Option[K, V] {
	return func(c *config[K, V]) {
		c.metrics = m
	}
}
