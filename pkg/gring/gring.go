package gring

import (
	"iter"
)

// Fixed capacity ring buffer. Once full every Push
// evicts the oldest element, so the contents are always
// the most recent <capacity> pushes.
type Ring[T any] struct {
	l   int
	s   []T
	pos int
}

func NewRing[T any](l int) *Ring[T] {
	return &Ring[T]{
		l:   0,
		s:   make([]T, l),
		pos: 0,
	}
}

func (r *Ring[T]) Size() int {
	return r.l
}

func (r *Ring[T]) Cap() int {
	return len(r.s)
}

func (r *Ring[T]) Push(e T) {
	r.s[r.pos] = e
	r.pos++
	if r.pos >= len(r.s) {
		r.pos = 0
	}
	if r.l < len(r.s) {
		r.l++
	}
}

// At(0) is the newest element, At(Size()-1) the oldest.
// Panics on an empty ring same as a slice would.
func (r *Ring[T]) At(i int) T {
	real_pos := r.pos - 1 - i%r.l
	if real_pos < 0 {
		real_pos += len(r.s)
	}
	return r.s[real_pos]
}

func (r *Ring[T]) Newest() T {
	return r.At(0)
}

func (r *Ring[T]) Oldest() T {
	return r.At(r.l - 1)
}

// Iterates newest to oldest
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range r.l {
			if !yield(r.At(i)) {
				return
			}
		}
	}
}
