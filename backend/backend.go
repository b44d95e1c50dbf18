package backend

import (
	"errors"

	"github.com/gogpu/texatlas"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when a factory is used before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// TextureBackend supplies atlas textures from one graphics API.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type TextureBackend interface {
	// Name returns the backend identifier (e.g., "software", "opengl").
	Name() string

	// Init prepares the backend. For GPU APIs this is where the context is
	// checked, so Init fails when no context is current.
	Init() error

	// Close releases backend resources. Textures already created stay
	// owned by their atlases.
	Close()

	// Factory returns the function atlases use to create textures.
	Factory() texatlas.TextureFactory
}
