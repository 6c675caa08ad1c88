package backend

import "sync"

// Factory creates a new backend instance.
type Factory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)

	// Priority order for default selection (first available wins).
	// gl > webgpu > soft (soft is the always-available fallback).
	priority = []string{"gl", "webgpu", "soft"}
)

// Register registers a backend factory under name. Backend packages call
// this from init(). Registering an existing name replaces the factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry. Useful for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a new instance of the named backend, or ErrBackendNotAvailable
// if it is not registered.
func Get(name string) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil, ErrBackendNotAvailable
	}
	return factory(), nil
}

// Default returns the best available backend by priority, or
// ErrBackendNotAvailable if none is registered.
func Default() (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b, nil
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b, nil
		}
	}
	return nil, ErrBackendNotAvailable
}
