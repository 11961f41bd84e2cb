package lru

// Stats holds the counters kept by the owner goroutine.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Adds      uint64
	Evictions uint64
}

// HitRate returns the cache hit rate as a value between 0 and 1.
// Returns 0 if there have been no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
