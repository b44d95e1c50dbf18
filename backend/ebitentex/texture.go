// Package ebitentex stores atlas textures in ebiten images.
//
// Importing the package registers the "ebiten" backend. Draw a region with
// SubImage:
//
//	op := &ebiten.DrawImageOptions{}
//	screen.DrawImage(tex.SubImage(&region), op)
package ebitentex

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/texatlas"
)

// Texture is a texatlas.Texture backed by an *ebiten.Image.
//
// The image holds premultiplied RGBA8 pixels. A straight-alpha shadow copy
// in the requested format serves Pixmap, since ebiten cannot read pixels
// back before the game loop starts.
type Texture struct {
	mu       sync.Mutex
	img      *ebiten.Image
	width    int
	height   int
	format   texatlas.PixelFormat
	shadow   *texatlas.Pixmap
	disposed bool
}

// New creates a cleared ebiten-backed texture.
func New(width, height int, format texatlas.PixelFormat) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", texatlas.ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", texatlas.ErrUnsupportedFormat, format)
	}
	return &Texture{
		img:    ebiten.NewImage(width, height),
		width:  width,
		height: height,
		format: format,
		shadow: texatlas.NewPixmapFormat(width, height, format),
	}, nil
}

// Factory is a texatlas.TextureFactory producing ebiten textures.
func Factory(width, height int, format texatlas.PixelFormat) (texatlas.Texture, error) {
	return New(width, height, format)
}

func (t *Texture) Width() int                   { return t.width }
func (t *Texture) Height() int                  { return t.height }
func (t *Texture) Format() texatlas.PixelFormat { return t.format }

// Image returns the ebiten image, or nil after Destroy.
func (t *Texture) Image() *ebiten.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.img
}

// UpdatePixmap replaces the image contents with WritePixels.
func (t *Texture) UpdatePixmap(pm *texatlas.Pixmap) error {
	if pm == nil {
		return texatlas.ErrNilPixmap
	}
	if pm.Width() != t.width || pm.Height() != t.height {
		return fmt.Errorf("%w: texture is %dx%d, pixmap is %dx%d",
			texatlas.ErrInvalidDimensions, t.width, t.height, pm.Width(), pm.Height())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return texatlas.ErrTextureDestroyed
	}
	t.img.WritePixels(premultiply(pm.Convert(texatlas.FormatRGBA8).Data()))
	t.shadow = pm.Convert(t.format)
	return nil
}

// Pixmap returns a copy of the last uploaded contents.
func (t *Texture) Pixmap() (*texatlas.Pixmap, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return nil, texatlas.ErrTextureDestroyed
	}
	return t.shadow.Clone(), nil
}

// SubImage returns the part of the image r covers. It returns nil for a
// degenerate region or a destroyed texture.
func (t *Texture) SubImage(r *texatlas.TextureRegion) *ebiten.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed || r == nil || !r.Valid() {
		return nil
	}
	return t.img.SubImage(RegionBounds(r, t.width, t.height)).(*ebiten.Image)
}

// RegionBounds converts the UVs of r to a pixel rectangle on a width x
// height texture.
func RegionBounds(r *texatlas.TextureRegion, width, height int) image.Rectangle {
	px := func(v float32, size int) int {
		return int(math.Round(float64(v) * float64(size)))
	}
	return image.Rect(px(r.U0, width), px(r.V0, height), px(r.U1, width), px(r.V1, height))
}

// Destroy deallocates the ebiten image.
func (t *Texture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	t.disposed = true
	t.img.Deallocate()
	t.img = nil
	t.shadow = nil
}

// premultiply converts straight-alpha RGBA8 into the premultiplied layout
// ebiten.Image.WritePixels expects.
func premultiply(rgba []byte) []byte {
	out := make([]byte, len(rgba))
	for i := 0; i+3 < len(rgba); i += 4 {
		a := uint32(rgba[i+3])
		out[i] = byte((uint32(rgba[i])*a + 127) / 255)
		out[i+1] = byte((uint32(rgba[i+1])*a + 127) / 255)
		out[i+2] = byte((uint32(rgba[i+2])*a + 127) / 255)
		out[i+3] = byte(a)
	}
	return out
}
