// Package internal holds the recency list shared by the LRU implementations.
package internal

// Nil is the link value of a node that has no neighbour on that side.
const Nil = -1

type node[K comparable, V any] struct {
	key   K
	value V
	prev  int
	next  int
}

// List is a doubly linked list whose nodes live in a dense arena and refer to
// each other by arena index. Front is the most recently used node, Back the
// least recently used one. Indexes returned by PushFront stay valid until the
// node is removed.
//
// A List is not safe for concurrent use.
type List[K comparable, V any] struct {
	nodes []node[K, V]
	free  []int
	head  int
	tail  int
	len   int
}

// NewList returns an empty list with room for capacity nodes.
func NewList[K comparable, V any](capacity int) *List[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &List[K, V]{
		nodes: make([]node[K, V], 0, capacity),
		head:  Nil,
		tail:  Nil,
	}
}

// Init clears the list, keeping the arena's backing storage.
func (l *List[K, V]) Init() {
	clear(l.nodes)
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.head, l.tail = Nil, Nil
	l.len = 0
}

// Len returns the number of linked nodes.
func (l *List[K, V]) Len() int { return l.len }

// Front returns the index of the most recently used node, or Nil.
func (l *List[K, V]) Front() int { return l.head }

// Back returns the index of the least recently used node, or Nil.
func (l *List[K, V]) Back() int { return l.tail }

// Next returns the node after i, towards Back.
func (l *List[K, V]) Next(i int) int { return l.nodes[i].next }

// Prev returns the node before i, towards Front.
func (l *List[K, V]) Prev(i int) int { return l.nodes[i].prev }

// Key returns the key stored at i.
func (l *List[K, V]) Key(i int) K { return l.nodes[i].key }

// Value returns the value stored at i.
func (l *List[K, V]) Value(i int) V { return l.nodes[i].value }

// SetValue replaces the value stored at i without moving it.
func (l *List[K, V]) SetValue(i int, value V) { l.nodes[i].value = value }

// PushFront stores key and value in a free slot, links it at the front and
// returns its index.
func (l *List[K, V]) PushFront(key K, value V) int {
	var i int
	if n := len(l.free); n > 0 {
		i = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.nodes = append(l.nodes, node[K, V]{})
		i = len(l.nodes) - 1
	}
	l.nodes[i].key = key
	l.nodes[i].value = value
	l.linkFront(i)
	l.len++
	return i
}

// MoveToFront promotes i to the front. It is a no-op when i is already there.
func (l *List[K, V]) MoveToFront(i int) {
	if l.head == i {
		return
	}
	l.unlink(i)
	l.linkFront(i)
}

// Remove unlinks i, releases its slot and returns what it held.
func (l *List[K, V]) Remove(i int) (key K, value V) {
	l.unlink(i)
	n := &l.nodes[i]
	key, value = n.key, n.value
	*n = node[K, V]{prev: Nil, next: Nil}
	l.free = append(l.free, i)
	l.len--
	return key, value
}

// unlink splices i out of the chain, repairing its neighbours and the
// head/tail markers. The slot itself is left allocated.
func (l *List[K, V]) unlink(i int) {
	n := &l.nodes[i]
	if n.prev != Nil {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != Nil {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = Nil, Nil
}

// linkFront splices an unlinked i in as the new head.
func (l *List[K, V]) linkFront(i int) {
	n := &l.nodes[i]
	n.prev = Nil
	n.next = l.head
	if l.head != Nil {
		l.nodes[l.head].prev = i
	} else {
		l.tail = i
	}
	l.head = i
}
