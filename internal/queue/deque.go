// Package queue provides the ordered container queues consumed by the
// railyard loaders.
//
// A Deque holds container weights in caller-supplied priority order
// (normally heaviest first). Loaders consume from the front for priority
// order and from the back where the lightest available container is wanted.
// A Deque only ever shrinks once handed to a loader; it never grows.
//
// A Deque is owned by exactly one caller at a time and is not safe for
// concurrent use. Use Clone to hand out an independent snapshot.
package queue

import (
	"cmp"
	"slices"
)

// Deque is a double-ended queue of container weights backed by a slice
// window. Popping from either end moves the window; the backing array is
// never shared with the caller.
type Deque struct {
	items []float64
}

// New creates a Deque holding a copy of weights in the given order.
// The caller's slice is not retained, so later changes to it do not leak
// into the queue (and consumption does not leak back out).
func New(weights ...float64) *Deque {
	items := make([]float64, len(weights))
	copy(items, weights)
	return &Deque{items: items}
}

// NewDescending creates a Deque holding a copy of weights sorted heaviest
// first. Equal weights keep their relative order.
func NewDescending(weights ...float64) *Deque {
	d := New(weights...)
	slices.SortStableFunc(d.items, func(a, b float64) int { return cmp.Compare(b, a) })
	return d
}

// Len returns the number of containers left. A nil Deque is empty.
func (d *Deque) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// Empty reports whether no containers are left.
func (d *Deque) Empty() bool {
	return d.Len() == 0
}

// At returns the i-th container from the front without removing it.
func (d *Deque) At(i int) (float64, bool) {
	if i < 0 || i >= d.Len() {
		return 0, false
	}
	return d.items[i], true
}

// Front returns the first container without removing it.
func (d *Deque) Front() (float64, bool) {
	return d.At(0)
}

// Back returns the last container without removing it.
func (d *Deque) Back() (float64, bool) {
	return d.At(d.Len() - 1)
}

// PopFront removes and returns the first container.
func (d *Deque) PopFront() (float64, bool) {
	w, ok := d.Front()
	if !ok {
		return 0, false
	}
	d.items = d.items[1:]
	return w, true
}

// PopBack removes and returns the last container.
func (d *Deque) PopBack() (float64, bool) {
	w, ok := d.Back()
	if !ok {
		return 0, false
	}
	d.items = d.items[:len(d.items)-1]
	return w, true
}

// Items returns a copy of the remaining containers, front first.
func (d *Deque) Items() []float64 {
	out := make([]float64, d.Len())
	if d != nil {
		copy(out, d.items)
	}
	return out
}

// Clone returns an independent Deque with the same remaining containers.
func (d *Deque) Clone() *Deque {
	return New(d.Items()...)
}

// IsDescending reports whether the remaining containers are ordered
// heaviest first, which is the order the loaders assume.
func (d *Deque) IsDescending() bool {
	for i := 1; i < d.Len(); i++ {
		if d.items[i] > d.items[i-1] {
			return false
		}
	}
	return true
}
