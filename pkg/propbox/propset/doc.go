// Package propset provides a thread-safe keyed collection of properties.
//
// A property.Property is not safe for concurrent use on its own. A Set owns
// its properties and guards every access with a sync.RWMutex, so readers of
// different keys never block each other and a Store never races a Get.
//
// # Basic Usage
//
//	s := propset.New[string]()
//	_ = propset.Store(s, "speed", kinds.Float, 12.5)
//
//	v, err := propset.Get(s, "speed", kinds.Float)
//	if err != nil {
//	    // propset.ErrNotFound, or a *tags.TypeMismatchError
//	}
//
// Store replaces both value and type of an existing key, exactly like
// property.Set:
//
//	_ = propset.Store(s, "speed", kinds.String, "fast")
//	_, err = propset.Get(s, "speed", kinds.Float) // type mismatch
//
// # Lazy Initialization
//
// GetOrCreate is atomic: the factory is called at most once per key, even
// under concurrent access.
//
//	v, err := propset.GetOrCreate(s, "retries", kinds.Int, func() int { return 3 })
//
// # Iteration
//
// Range and Snapshot hand out clones, never the stored properties, so callers
// can hold them without the lock. Range iterates over a snapshot; Store and
// Delete during iteration do not affect it.
package propset
