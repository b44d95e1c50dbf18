package texatlas

import (
	"fmt"
	"sync/atomic"
)

// Vec2 is a point in normalized texture space.
type Vec2 struct {
	X, Y float32
}

// TextureRegion is a texture handle plus the UV rectangle (U0,V0)-(U1,V1)
// to sample from it.
//
// A region returned by TextureAtlas.Get holds one reference on the atlas
// texture. Call Release exactly once when done; copies of the value share
// that single reference.
type TextureRegion struct {
	tex *SharedTexture

	U0, V0 float32
	U1, V1 float32

	version uint64
	gen     *atomic.Uint64
}

// degenerateRegion is returned for lookups that cannot be served.
func degenerateRegion() TextureRegion {
	return TextureRegion{U0: 0, V0: 0, U1: 1, V1: 1}
}

// NewTextureRegion creates a region over tex, taking a new reference on it.
// A nil tex yields a degenerate region.
func NewTextureRegion(tex *SharedTexture, u0, v0, u1, v1 float32) TextureRegion {
	if tex == nil {
		return degenerateRegion()
	}
	return TextureRegion{tex: tex.AddRef(), U0: u0, V0: v0, U1: u1, V1: v1}
}

// Texture returns the referenced texture, or nil for a degenerate region.
func (r *TextureRegion) Texture() *SharedTexture {
	return r.tex
}

// Valid reports whether the region references a texture.
func (r *TextureRegion) Valid() bool {
	return r.tex != nil
}

// Release drops the region's texture reference. It is safe to call on a
// degenerate or already released region.
func (r *TextureRegion) Release() {
	if r.tex != nil {
		r.tex.Release()
		r.tex = nil
	}
}

// Stale reports whether the atlas that issued the region has been repacked
// since, which may have moved the image the UVs point at.
func (r *TextureRegion) Stale() bool {
	return r.gen != nil && r.gen.Load() != r.version
}

// Size returns the region size in texels.
func (r *TextureRegion) Size() (w, h float32) {
	if r.tex == nil {
		return 0, 0
	}
	t := r.tex.Texture()
	return (r.U1 - r.U0) * float32(t.Width()), (r.V1 - r.V0) * float32(t.Height())
}

// Sub returns the part of r between the local coordinates uv0 and uv1, both
// in [0,1] relative to r. The result takes its own texture reference.
func (r *TextureRegion) Sub(uv0, uv1 Vec2) TextureRegion {
	if r.tex == nil {
		return degenerateRegion()
	}
	du, dv := r.U1-r.U0, r.V1-r.V0
	sub := NewTextureRegion(r.tex,
		r.U0+du*uv0.X, r.V0+dv*uv0.Y,
		r.U0+du*uv1.X, r.V0+dv*uv1.Y)
	sub.version, sub.gen = r.version, r.gen
	return sub
}

func (r TextureRegion) String() string {
	if r.tex == nil {
		return "TextureRegion[nil]"
	}
	return fmt.Sprintf("TextureRegion[(%.4f,%.4f)-(%.4f,%.4f)]", r.U0, r.V0, r.U1, r.V1)
}
