// Package arena implements a slot-based allocator issuing stable handles.
//
// Freed slots go on a free list and are reused by later allocations. Each
// slot carries a generation counter, bumped on reuse, so a handle kept
// across a free/reuse cycle is detected instead of silently aliasing the
// new value.
package arena

import "errors"

// ErrStaleHandle is returned when dereferencing a handle whose slot has been
// freed, possibly reused, since the handle was issued.
var ErrStaleHandle = errors.New("arena: stale handle")

// Handle identifies one live slot of an arena.
//
// The zero Handle never refers to a live slot and can be used as a "none"
// value.
type Handle struct {
	index      uint32
	generation uint32
}

// IsNone reports whether h is the zero Handle.
func (h Handle) IsNone() bool {
	return h.generation == 0
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena stores values of type T in reusable slots.
//
// The zero Arena is ready to use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	len   int
}

// Allocate stores value in a slot and returns its handle. Freed slots are
// reused before the arena grows.
func (a *Arena[T]) Allocate(value T) Handle {
	a.len++
	if n := len(a.free); n != 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		if s.live {
			panic("arena: live slot on the free list")
		}
		s.value = value
		s.generation++
		s.live = true
		return Handle{index: index, generation: s.generation}
	}
	a.slots = append(a.slots, slot[T]{value: value, generation: 1, live: true})
	return Handle{index: uint32(len(a.slots) - 1), generation: 1}
}

// Deallocate frees the slot of h and returns its value.
// It panics if h is stale.
func (a *Arena[T]) Deallocate(h Handle) T {
	s := a.liveSlot(h)
	value := s.value
	var zero T
	s.value = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.len--
	return value
}

// Get returns a pointer to the value of h, valid until the next Allocate
// call, or ErrStaleHandle if the slot has been freed since h was issued.
func (a *Arena[T]) Get(h Handle) (*T, error) {
	if int(h.index) >= len(a.slots) {
		return nil, ErrStaleHandle
	}
	s := &a.slots[h.index]
	if !s.live || s.generation != h.generation {
		return nil, ErrStaleHandle
	}
	return &s.value, nil
}

// Must is like Get but panics on a stale handle, for callers holding
// handles whose liveness is a structural invariant.
func (a *Arena[T]) Must(h Handle) *T {
	return &a.liveSlot(h).value
}

func (a *Arena[T]) liveSlot(h Handle) *slot[T] {
	if int(h.index) >= len(a.slots) {
		panic(ErrStaleHandle)
	}
	s := &a.slots[h.index]
	if !s.live || s.generation != h.generation {
		panic(ErrStaleHandle)
	}
	return s
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int { return a.len }

// IsEmpty reports whether the arena has no live slot.
func (a *Arena[T]) IsEmpty() bool { return a.len == 0 }
