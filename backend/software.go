package backend

import (
	"sync/atomic"

	"github.com/gogpu/texatlas"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU-side backend.
	BackendSoftware = "software"
	// BackendOpenGL is the name of the go-gl backend.
	BackendOpenGL = "opengl"
	// BackendEbiten is the name of the ebiten image backend.
	BackendEbiten = "ebiten"
)

// SoftwareBackend keeps atlas textures in CPU memory.
type SoftwareBackend struct {
	initialized atomic.Bool
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() TextureBackend {
		return &SoftwareBackend{}
	})
}

// NewSoftwareBackend creates a new software backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Init initializes the backend.
func (b *SoftwareBackend) Init() error {
	b.initialized.Store(true)
	return nil
}

// Close marks the backend closed; later factory calls fail.
func (b *SoftwareBackend) Close() {
	b.initialized.Store(false)
}

// Factory returns a factory creating texatlas.SoftwareTexture values.
func (b *SoftwareBackend) Factory() texatlas.TextureFactory {
	return func(width, height int, format texatlas.PixelFormat) (texatlas.Texture, error) {
		if !b.initialized.Load() {
			return nil, ErrNotInitialized
		}
		return texatlas.NewSoftwareTexture(width, height, format)
	}
}
