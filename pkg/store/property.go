package store

import (
	"fmt"
	"sync"
)

// Property is a typed view of one key. The value is read once, when the
// property is created, and cached; later reads come from the cache and
// only writes made through the Property refresh it. A key that is absent
// (or holds a value that does not decode as T) is written back with the
// default immediately.
type Property[T any] struct {
	store Interface
	key   string

	mu    sync.RWMutex
	value T
}

// NewProperty binds key in st, defaulting it to def.
func NewProperty[T any](st Interface, key string, def T) (*Property[T], error) {
	p := &Property[T]{store: st, key: key}

	var v T
	found, err := st.Lookup(key, &v)
	if found && err == nil {
		p.value = v
		return p, nil
	}
	if err := st.Set(key, def); err != nil {
		return nil, fmt.Errorf("default %q: %w", key, err)
	}
	p.value = def
	return p, nil
}

// Key returns the store key.
func (p *Property[T]) Key() string { return p.key }

// Get returns the cached value.
func (p *Property[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set writes v through to the store and updates the cache. On a failed
// write the cache keeps the old value.
func (p *Property[T]) Set(v T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Set(p.key, v); err != nil {
		return err
	}
	p.value = v
	return nil
}

// String formats the cached value.
func (p *Property[T]) String() string { return fmt.Sprint(p.Get()) }
