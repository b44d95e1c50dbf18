package texatlas

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Texture is a bitmap resource owned by a rendering backend.
//
// Implementations live in the gpu, backend/ebitentex and backend/opengl
// packages; SoftwareTexture is the CPU-side default.
type Texture interface {
	Width() int
	Height() int
	Format() PixelFormat

	// UpdatePixmap replaces the full texture contents. The pixmap must match
	// the texture dimensions; implementations convert the pixel format when
	// needed.
	UpdatePixmap(pm *Pixmap) error

	// Pixmap returns a copy of the last uploaded contents.
	Pixmap() (*Pixmap, error)

	// Destroy releases backend resources. It is called once, by the
	// SharedTexture that owns the texture.
	Destroy()
}

// TextureFactory creates a backend texture of fixed dimensions.
type TextureFactory func(width, height int, format PixelFormat) (Texture, error)

// SharedTexture is a reference-counted handle to a Texture. The atlas holds
// one reference and every TextureRegion it hands out holds another; the
// backend texture is destroyed when the last holder releases it.
type SharedTexture struct {
	tex  Texture
	refs atomic.Int32
}

// NewSharedTexture wraps t with a reference count of one.
func NewSharedTexture(t Texture) *SharedTexture {
	s := &SharedTexture{tex: t}
	s.refs.Store(1)
	return s
}

// NewTextureFromPixmap creates a texture with factory and uploads pm into it.
func NewTextureFromPixmap(factory TextureFactory, pm *Pixmap) (*SharedTexture, error) {
	if pm == nil {
		return nil, ErrNilPixmap
	}
	if factory == nil {
		factory = SoftwareFactory
	}
	tex, err := factory(pm.Width(), pm.Height(), pm.Format())
	if err != nil {
		return nil, err
	}
	if err := tex.UpdatePixmap(pm); err != nil {
		tex.Destroy()
		return nil, err
	}
	return NewSharedTexture(tex), nil
}

// AddRef increments the reference count and returns s. A handle whose count
// already dropped to zero is not revived.
func (s *SharedTexture) AddRef() *SharedTexture {
	for {
		n := s.refs.Load()
		if n <= 0 {
			Logger().Warn("texatlas: AddRef on released texture")
			return s
		}
		if s.refs.CompareAndSwap(n, n+1) {
			return s
		}
	}
}

// Release drops one reference and destroys the backend texture when none
// remain. Extra releases are ignored.
func (s *SharedTexture) Release() {
	for {
		n := s.refs.Load()
		if n <= 0 {
			return
		}
		if s.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				s.tex.Destroy()
			}
			return
		}
	}
}

// RefCount returns the current number of holders.
func (s *SharedTexture) RefCount() int {
	return int(s.refs.Load())
}

// Texture returns the backend texture.
func (s *SharedTexture) Texture() Texture {
	return s.tex
}

// SoftwareTexture is a Texture kept entirely in CPU memory. It is the
// default backend and is what tests sample from.
type SoftwareTexture struct {
	mu        sync.RWMutex
	width     int
	height    int
	format    PixelFormat
	pixels    *Pixmap
	uploads   int
	destroyed bool
}

// NewSoftwareTexture creates a zeroed texture.
func NewSoftwareTexture(width, height int, format PixelFormat) (*SoftwareTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return &SoftwareTexture{
		width:  width,
		height: height,
		format: format,
		pixels: NewPixmapFormat(width, height, format),
	}, nil
}

// SoftwareFactory is a TextureFactory producing SoftwareTextures.
func SoftwareFactory(width, height int, format PixelFormat) (Texture, error) {
	return NewSoftwareTexture(width, height, format)
}

func (t *SoftwareTexture) Width() int          { return t.width }
func (t *SoftwareTexture) Height() int         { return t.height }
func (t *SoftwareTexture) Format() PixelFormat { return t.format }

// UpdatePixmap replaces the texture contents with a copy of pm.
func (t *SoftwareTexture) UpdatePixmap(pm *Pixmap) error {
	if pm == nil {
		return ErrNilPixmap
	}
	if pm.Width() != t.width || pm.Height() != t.height {
		return fmt.Errorf("%w: texture is %dx%d, pixmap is %dx%d",
			ErrInvalidDimensions, t.width, t.height, pm.Width(), pm.Height())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTextureDestroyed
	}
	t.pixels = pm.Convert(t.format)
	t.uploads++
	return nil
}

// Pixmap returns a copy of the texture contents.
func (t *SoftwareTexture) Pixmap() (*Pixmap, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	return t.pixels.Clone(), nil
}

// Sample returns the texel nearest to the normalized coordinate (u, v).
// Coordinates are clamped to the edge.
func (t *SoftwareTexture) Sample(u, v float32) RGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return Transparent
	}
	x := clampTexel(u, t.width)
	y := clampTexel(v, t.height)
	return t.pixels.GetPixel(x, y)
}

func clampTexel(u float32, size int) int {
	i := int(math.Floor(float64(u) * float64(size)))
	return min(max(i, 0), size-1)
}

// Uploads returns how many times UpdatePixmap succeeded.
func (t *SoftwareTexture) Uploads() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.uploads
}

// Destroyed reports whether Destroy was called.
func (t *SoftwareTexture) Destroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// Destroy frees the pixel buffer.
func (t *SoftwareTexture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
	t.pixels = nil
}
