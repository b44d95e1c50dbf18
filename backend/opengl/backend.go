package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/texatlas"
	"github.com/gogpu/texatlas/backend"
)

func init() {
	backend.Register(backend.BackendOpenGL, func() backend.TextureBackend {
		return &Backend{}
	})
}

// Backend is the "opengl" texture backend.
type Backend struct {
	initialized bool
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendOpenGL }

// Init loads the GL function pointers for the current context.
func (b *Backend) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl: %w", err)
	}
	if v := gl.GetString(gl.VERSION); v != nil {
		texatlas.Logger().Info("opengl: context ready", "version", gl.GoStr(v))
	}
	b.initialized = true
	return nil
}

// Close forgets the context.
func (b *Backend) Close() { b.initialized = false }

// Factory returns a factory that fails until Init succeeded.
func (b *Backend) Factory() texatlas.TextureFactory {
	return func(width, height int, format texatlas.PixelFormat) (texatlas.Texture, error) {
		if !b.initialized {
			return nil, backend.ErrNotInitialized
		}
		return New(width, height, format)
	}
}
