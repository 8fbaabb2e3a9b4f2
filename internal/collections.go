package internal

// Set is an unordered collection of unique items backed by a map.
type Set[T comparable] struct {
	items map[T]struct{}
}

// NewSet builds a set seeded with the given items.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.items[item] = struct{}{}
	}
	return s
}

// Add inserts an item. Adding an existing item has no effect.
func (s *Set[T]) Add(item T) {
	s.items[item] = struct{}{}
}

// Remove deletes an item if present.
func (s *Set[T]) Remove(item T) {
	delete(s.items, item)
}

// Contains reports whether the item is in the set.
func (s *Set[T]) Contains(item T) bool {
	_, ok := s.items[item]
	return ok
}

// Len returns the number of items.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Values returns the items as a slice in map iteration order.
func (s *Set[T]) Values() []T {
	out := make([]T, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	return out
}

// MapKeys returns the keys of m as a slice in map iteration order.
func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
