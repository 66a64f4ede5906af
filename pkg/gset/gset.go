package gset

import (
	"cmp"
	"iter"
)

type SetNode[T cmp.Ordered] struct {
	value T
	next  *SetNode[T]
}

// Ordered set backed by a sorted linked list.
// Good enough for the handful of live ids we keep at a time.
type Set[T cmp.Ordered] struct {
	head *SetNode[T]
	l    int
}

func (s *Set[T]) Add(values ...T) {
	for _, value := range values {
		s.add(value)
	}
}

func (s *Set[T]) add(value T) {
	previous, current := (*SetNode[T])(nil), s.head
	for current != nil {
		if current.value == value {
			return
		} else if current.value > value {
			break
		}
		previous, current = current, current.next
	}
	new_node := &SetNode[T]{value: value, next: current}
	if previous == nil {
		s.head = new_node
	} else {
		previous.next = new_node
	}
	s.l++
}

func (s *Set[T]) Del(values ...T) {
	for _, value := range values {
		s.del(value)
	}
}

func (s *Set[T]) del(value T) {
	previous, current := (*SetNode[T])(nil), s.head
	for current != nil {
		if current.value == value {
			if previous == nil {
				s.head = current.next
			} else {
				previous.next = current.next
			}
			s.l--
			return
		}
		previous, current = current, current.next
	}
}

func (s *Set[T]) Contains(value T) bool {
	for current := s.head; current != nil; current = current.next {
		if current.value == value {
			return true
		}
		if current.value > value {
			return false
		}
	}
	return false
}

func (s *Set[T]) Len() int {
	return s.l
}

func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := s.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}
