// Package cache provides a bounded LRU keyed map.
package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key K
	val V
}

// LRU holds at most Cap entries. Adding past the bound evicts the least
// recently used entry and hands it to OnEvict.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	lruList *list.List
	items   map[K]*list.Element
	onEvict func(K, V)
}

func NewLRU[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[K, V]{
		cap:     capacity,
		lruList: list.New(),
		items:   make(map[K]*list.Element),
		onEvict: onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	elem, ok := l.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	l.lruList.MoveToFront(elem)
	return elem.Value.(*entry[K, V]).val, true
}

// Add inserts or replaces key. A replaced value is not passed to OnEvict.
func (l *LRU[K, V]) Add(key K, val V) {
	var evicted []*entry[K, V]

	l.mu.Lock()
	if elem, ok := l.items[key]; ok {
		elem.Value.(*entry[K, V]).val = val
		l.lruList.MoveToFront(elem)
		l.mu.Unlock()
		return
	}
	l.items[key] = l.lruList.PushFront(&entry[K, V]{key: key, val: val})
	for l.lruList.Len() > l.cap {
		back := l.lruList.Back()
		e := back.Value.(*entry[K, V])
		l.lruList.Remove(back)
		delete(l.items, e.key)
		evicted = append(evicted, e)
	}
	l.mu.Unlock()

	// OnEvict runs without the lock held.
	if l.onEvict != nil {
		for _, e := range evicted {
			l.onEvict(e.key, e.val)
		}
	}
}

// Remove deletes key without calling OnEvict.
func (l *LRU[K, V]) Remove(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	elem, ok := l.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	l.lruList.Remove(elem)
	delete(l.items, key)
	return elem.Value.(*entry[K, V]).val, true
}

func (l *LRU[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lruList.Len()
}

func (l *LRU[K, V]) Cap() int { return l.cap }

// Keys lists keys from most to least recently used.
func (l *LRU[K, V]) Keys() []K {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]K, 0, l.lruList.Len())
	for e := l.lruList.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*entry[K, V]).key)
	}
	return out
}

// Drain empties the cache and returns the entries, least recently used first.
func (l *LRU[K, V]) Drain() []V {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]V, 0, l.lruList.Len())
	for e := l.lruList.Back(); e != nil; e = e.Prev() {
		out = append(out, e.Value.(*entry[K, V]).val)
	}
	l.lruList.Init()
	clear(l.items)
	return out
}
