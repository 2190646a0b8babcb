package propset

import (
	"fmt"
	"sync"

	"github.com/randalmurphal/propbox/pkg/propbox/property"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

// Set is a thread-safe collection of properties indexed by key.
// It uses sync.RWMutex for read-heavy workloads.
type Set[K comparable] struct {
	mu      sync.RWMutex
	entries map[K]*property.Property[K]
}

// New creates a new empty set.
func New[K comparable]() *Set[K] {
	return &Set[K]{
		entries: make(map[K]*property.Property[K]),
	}
}

// Add takes ownership of p and stores it under p.Key().
// The caller must not use p afterwards.
func (s *Set[K]) Add(p *property.Property[K]) error {
	if p == nil {
		return ErrNilProperty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[p.Key()]; ok {
		return fmt.Errorf("%w: %v", ErrExists, p.Key())
	}
	s.entries[p.Key()] = p
	return nil
}

// Has returns true if a property is stored under key.
func (s *Set[K]) Has(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Tag returns the tag of the type currently held under key.
func (s *Set[K]) Tag(key K) (tags.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[key]
	if !ok {
		return 0, notFound(key)
	}
	return p.Tag(), nil
}

// Snapshot returns an independent clone of the property stored under key.
func (s *Set[K]) Snapshot(key K) (*property.Property[K], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Delete removes a key from the set.
func (s *Set[K]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Keys returns all keys in the set.
// The order is not guaranteed.
func (s *Set[K]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of properties in the set.
func (s *Set[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Range calls fn with a clone of every property. If fn returns false,
// iteration stops.
//
// Range iterates over a snapshot taken under the read lock, so fn may call
// Store or Delete without affecting the current iteration.
func (s *Set[K]) Range(fn func(K, *property.Property[K]) bool) {
	s.mu.RLock()
	snapshot := make(map[K]*property.Property[K], len(s.entries))
	for k, p := range s.entries {
		snapshot[k] = p.Clone()
	}
	s.mu.RUnlock()

	for k, p := range snapshot {
		if !fn(k, p) {
			return
		}
	}
}

// Get returns the value stored under key if it currently has type T.
func Get[K comparable, T any](s *Set[K], key K, k *tags.Kind[T]) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, notFound(key)
	}
	return property.Get(p, k)
}

// Is reports whether key exists and currently holds type T.
func Is[K comparable, T any](s *Set[K], key K, k *tags.Kind[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[key]
	return ok && property.Is(p, k)
}

// Store sets the value under key, creating the property if needed.
// An existing property changes type to T.
func Store[K comparable, T any](s *Set[K], key K, k *tags.Kind[T], v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.entries[key]; ok {
		return property.Set(p, k, v)
	}
	p, err := property.New(key, k, v)
	if err != nil {
		return err
	}
	s.entries[key] = p
	return nil
}

// GetOrCreate returns the value under key, creating the property with the
// factory value if it doesn't exist. The factory is called at most once per
// key, even under concurrent access. An existing property of another type
// yields a type mismatch and is left untouched.
func GetOrCreate[K comparable, T any](s *Set[K], key K, k *tags.Kind[T], factory func() T) (T, error) {
	// Fast path: already exists
	s.mu.RLock()
	p, ok := s.entries[key]
	if ok {
		v, err := property.Get(p, k)
		s.mu.RUnlock()
		return v, err
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if p, ok := s.entries[key]; ok {
		return property.Get(p, k)
	}

	if err := k.Valid(); err != nil {
		var zero T
		return zero, fmt.Errorf("property %v: %w", key, err)
	}
	p, err := property.New(key, k, factory())
	if err != nil {
		var zero T
		return zero, err
	}
	s.entries[key] = p
	return property.Get(p, k)
}

func notFound[K comparable](key K) error {
	return fmt.Errorf("%w: %v", ErrNotFound, key)
}
