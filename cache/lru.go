package cache

// lruNode is a node in the recency list. It stores its key so the oldest
// entry can be deleted from the shard map in O(1).
type lruNode[K comparable] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList is a circular doubly-linked list around a sentinel root.
// root.next is the most recently used node, root.prev the least.
// The list is not thread-safe; callers must hold the shard lock.
type lruList[K comparable] struct {
	root lruNode[K]
	len  int
}

func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.Clear()
	return l
}

// Len returns the number of nodes in the list.
func (l *lruList[K]) Len() int {
	return l.len
}

// PushFront adds key as the most recently used node and returns it.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfterRoot(n)
	l.len++
	return n
}

// MoveToFront marks n as the most recently used node.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertAfterRoot(n)
}

// Remove removes n from the list.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n == nil || n.next == nil {
		return
	}
	l.unlink(n)
	n.prev, n.next = nil, nil
	l.len--
}

// RemoveOldest removes the least recently used node and returns its key.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}
	n := l.root.prev
	l.Remove(n)
	return n.key, true
}

// Clear empties the list. Nodes handed out earlier must not be reused.
func (l *lruList[K]) Clear() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

func (l *lruList[K]) insertAfterRoot(n *lruNode[K]) {
	n.prev = &l.root
	n.next = l.root.next
	l.root.next.prev = n
	l.root.next = n
}

func (l *lruList[K]) unlink(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}
