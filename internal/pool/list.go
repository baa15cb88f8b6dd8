// Package pool provides borrowed result buffers.
//
// A query hands out a *List drawn from the ListPool owned by the index that ran it.
// The caller owns the list until it calls Release; after that the list must not be used.
package pool

import "sync"

// List is a borrowed slice of query results
type List[E any] struct {
	Items []E

	owner *ListPool[E]
}

// Len returns the number of items
func (l *List[E]) Len() int {
	return len(l.Items)
}

// Append adds an item
func (l *List[E]) Append(item E) {
	l.Items = append(l.Items, item)
}

// Release returns the list to the pool it was borrowed from.
// Releasing a nil list is a no-op.
func (l *List[E]) Release() {
	if l == nil || l.owner == nil {
		return
	}
	owner := l.owner
	clear(l.Items)
	l.Items = l.Items[:0]
	owner.released++
	owner.pool.Put(l)
}

// ListPool recycles lists of one element type
type ListPool[E any] struct {
	pool     sync.Pool
	borrowed uint64
	released uint64
}

// NewListPool creates an empty pool
func NewListPool[E any]() *ListPool[E] {
	p := &ListPool[E]{}
	p.pool.New = func() any {
		return &List[E]{Items: make([]E, 0, 16), owner: p}
	}
	return p
}

// Get borrows an empty list
func (p *ListPool[E]) Get() *List[E] {
	l := p.pool.Get().(*List[E])
	l.Items = l.Items[:0]
	p.borrowed++
	return l
}

// Outstanding returns how many lists were borrowed and not yet released
func (p *ListPool[E]) Outstanding() int64 {
	return int64(p.borrowed) - int64(p.released)
}
