// Package testutils holds behavioural checks shared by the LRU implementations
// in this module. Each check takes a fresh cache of the given capacity.
package testutils

import (
	"reflect"
	"testing"
)

// Cache is the surface every check drives. The engine satisfies it directly;
// the concurrent handle is adapted by its tests.
type Cache interface {
	Add(key, value int) bool
	Get(key int) (int, bool)
	Contains(key int) bool
	Peek(key int) (int, bool)
	Remove(key int) bool
	Keys() []int
	KeysByRecency() []int
	Len() int
	Purge()
}

func BasicTest(t *testing.T, l Cache, capacity int, evictCounter *int) {
	t.Helper()
	// add twice as much the capacity to check if eviction occurs
	for i := 0; i < 2*capacity; i++ {
		l.Add(i, i)
	}

	if l.Len() != capacity {
		t.Fatalf("bad len: %v", l.Len())
	}

	// half of them should be evicted to make room for the incoming ones
	if *evictCounter != capacity {
		t.Fatalf("bad evict count: %v", *evictCounter)
	}

	// cache should contain only the keys from capacity..2*capacity, anything before
	// that should have been evicted
	for i, k := range l.Keys() {
		if v, ok := l.Get(k); !ok || v != k || v != i+capacity {
			t.Fatalf("bad key: %v", k)
		}
	}

	for i := 0; i < capacity; i++ {
		if _, ok := l.Get(i); ok {
			t.Fatalf("should be evicted")
		}
	}

	for i := capacity; i < 2*capacity; i++ {
		if _, ok := l.Get(i); !ok {
			t.Fatalf("should not be evicted")
		}
	}

	// delete half the items from cache
	lastIndex := capacity + capacity/2
	for i := capacity; i < lastIndex; i++ {
		if ok := l.Remove(i); !ok {
			t.Fatalf("should be contained")
		}
		if ok := l.Remove(i); ok {
			t.Fatalf("should not be contained")
		}
		if _, ok := l.Get(i); ok {
			t.Fatalf("should be deleted")
		}
	}

	// this makes this item the most recently accessed; moved to the front
	l.Get(lastIndex)

	cacheLen := l.Len()
	if capacity-capacity/2 != cacheLen {
		t.Fatalf("invalid len. expected %v, got %v", capacity-capacity/2, cacheLen)
	}

	// Keys - returns items from oldest to newest.
	for i, k := range l.Keys() {
		// last item should be `lastIndex` and make sure the other items are ordered
		if (i == cacheLen-1 && k != lastIndex) || (i < cacheLen-1 && k != i+lastIndex+1) {
			t.Fatalf("out of order key: %v %v %v", i, k, cacheLen-1)
		}
	}
	if got := l.KeysByRecency(); len(got) == 0 || got[0] != lastIndex {
		t.Fatalf("%v should be most recent: %v", lastIndex, got)
	}

	l.Purge()
	if l.Len() != 0 {
		t.Fatalf("bad len: %v", l.Len())
	}

	// try to get the random item
	if _, ok := l.Get(200); ok {
		t.Fatalf("should contain nothing")
	}
}

// RecencyScenarioTest replays the five-entry walkthrough: fill, touch 1, then
// overflow twice. l must have capacity 5.
func RecencyScenarioTest(t *testing.T, l Cache) {
	t.Helper()
	for i := 0; i < 5; i++ {
		l.Add(i, i)
	}
	if v, ok := l.Get(1); !ok || v != 1 {
		t.Fatalf("1 should be set to 1: %v, %v", v, ok)
	}
	if got, want := l.KeysByRecency(), []int{1, 4, 3, 2, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("bad recency order: %v, want %v", got, want)
	}

	l.Add(5, 5)
	l.Add(6, 6)
	if got, want := l.KeysByRecency(), []int{6, 5, 1, 4, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("bad recency order: %v, want %v", got, want)
	}

	if _, ok := l.Get(0); ok {
		t.Fatalf("0 should be evicted")
	}
	if _, ok := l.Get(2); ok {
		t.Fatalf("2 should be evicted")
	}
	if v, ok := l.Get(5); !ok || v != 5 {
		t.Fatalf("5 should be set to 5: %v, %v", v, ok)
	}
	if v, ok := l.Get(6); !ok || v != 6 {
		t.Fatalf("6 should be set to 6: %v, %v", v, ok)
	}
}

func AddTest(t *testing.T, l Cache, capacity int, evictCounter *int) {
	t.Helper()
	for i := 0; i < capacity; i++ {
		if l.Add(i, i) || *evictCounter != 0 {
			t.Errorf("should not have an eviction")
		}
	}
	if !l.Add(capacity, capacity) || *evictCounter != 1 {
		t.Errorf("should have an eviction")
	}
}

// UpdateTest checks that re-adding a key replaces its value, promotes it and
// leaves the length alone.
func UpdateTest(t *testing.T, l Cache, capacity int) {
	t.Helper()
	for i := 0; i < capacity; i++ {
		l.Add(i, i)
	}
	if l.Add(0, 100) {
		t.Errorf("updating an existing key should not evict")
	}
	if l.Len() != capacity {
		t.Errorf("bad len: %v", l.Len())
	}
	if got := l.KeysByRecency(); got[0] != 0 {
		t.Errorf("0 should be most recent: %v", got)
	}
	if v, ok := l.Get(0); !ok || v != 100 {
		t.Errorf("0 should be set to 100: %v, %v", v, ok)
	}

	// 1 is now the oldest
	l.Add(capacity, capacity)
	if l.Contains(1) {
		t.Errorf("1 should have been evicted")
	}
	if !l.Contains(0) {
		t.Errorf("0 should have survived")
	}
}

func ContainsTest(t *testing.T, l Cache, capacity int) {
	t.Helper()
	for i := 0; i < capacity; i++ {
		l.Add(i, i)
	}

	// contains should not update the recent-ness so this item will remain the oldest
	if !l.Contains(0) {
		t.Errorf("0 should be contained")
	}

	// oldest (0) should have been evicted
	l.Add(capacity, capacity)
	if l.Contains(0) {
		t.Errorf("Contains should not have updated recent-ness of 0")
	}
}

func PeekTest(t *testing.T, l Cache, capacity int) {
	t.Helper()
	for i := 0; i < capacity; i++ {
		l.Add(i, i)
	}

	if v, ok := l.Peek(0); !ok || v != 0 {
		t.Errorf("0 should be set to 0: %v, %v", v, ok)
	}

	l.Add(capacity, capacity)
	if l.Contains(0) {
		t.Errorf("should have been removed to make room for the new item")
	}
}
