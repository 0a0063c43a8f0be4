// Package set is an ordered-value set, used for extension lists.
package set

import (
	"cmp"
	"maps"
	"slices"
)

// Set holds distinct values. The zero value is an empty, read-only set.
type Set[T cmp.Ordered] map[T]struct{}

// New returns the set of values, duplicates collapsed.
func New[T cmp.Ordered](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in s.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members of s in ascending order.
func (s Set[T]) Sorted() []T {
	return slices.Sorted(maps.Keys(s))
}
