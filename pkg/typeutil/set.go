package typeutil

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Set collects distinct values. The zero value is an empty set that is ready
// to use. Reading methods accept a nil set.
type Set[T constraints.Ordered] struct {
	data map[T]struct{}
}

// NewSet returns a set containing the given values.
func NewSet[T constraints.Ordered](values ...T) *Set[T] {
	s := new(Set[T])
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts the value and reports whether it was new.
func (s *Set[T]) Add(value T) bool {
	if s.data == nil {
		s.data = map[T]struct{}{}
	}

	if _, found := s.data[value]; found {
		return false
	}

	s.data[value] = struct{}{}
	return true
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// ToList returns the values in ascending order, so the result never depends
// on the insertion order. An empty set results in an empty, non-nil slice.
func (s *Set[T]) ToList() []T {
	list := make([]T, 0, s.Len())
	if s != nil {
		for v := range s.data {
			list = append(list, v)
		}
	}

	slices.Sort(list)

	return list
}
