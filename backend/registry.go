package backend

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/texatlas"
)

// BackendFactory constructs an uninitialized backend.
type BackendFactory func() TextureBackend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)

	// preferred lists the backends tried first by Default and InitDefault.
	preferred = []string{BackendOpenGL, BackendEbiten, BackendSoftware}
)

// Register makes a backend available under name, replacing any earlier
// registration. Backend packages call it from init.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	backends[name] = factory
	registryMu.Unlock()
}

// Unregister removes name from the registry.
func Unregister(name string) {
	registryMu.Lock()
	delete(backends, name)
	registryMu.Unlock()
}

// Available lists the registered backend names in lexical order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether name has a registered factory.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get constructs the backend registered as name, or returns nil.
func Get(name string) TextureBackend {
	registryMu.RLock()
	factory := backends[name]
	registryMu.RUnlock()
	if factory == nil {
		return nil
	}
	return factory()
}

// selectionOrder returns the registered names with the preferred ones first.
func selectionOrder() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	order := make([]string, 0, len(backends))
	for _, name := range preferred {
		if backends[name] != nil {
			order = append(order, name)
		}
	}
	var rest []string
	for name := range backends {
		if !slices.Contains(preferred, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

// Default constructs the most preferred registered backend without
// initializing it. It returns nil when the registry is empty.
func Default() TextureBackend {
	for _, name := range selectionOrder() {
		if b := Get(name); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault is Default that panics on an empty registry.
func MustDefault() TextureBackend {
	b := Default()
	if b == nil {
		panic("backend: no texture backend registered")
	}
	return b
}

// InitDefault walks the registry in preference order and returns the first
// backend whose Init succeeds. A GL backend without a current context fails
// Init and the walk moves on; software always succeeds.
func InitDefault() (TextureBackend, error) {
	log := texatlas.Logger()
	for _, name := range selectionOrder() {
		b := Get(name)
		if b == nil {
			continue
		}
		if err := b.Init(); err != nil {
			log.Warn("backend: init failed, trying next",
				slog.String("backend", name),
				slog.String("error", err.Error()))
			continue
		}
		log.Info("backend: selected", slog.String("backend", name))
		return b, nil
	}
	return nil, ErrBackendNotAvailable
}
