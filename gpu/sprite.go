//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/naga"
	"github.com/gogpu/texatlas"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

// SpriteShaderSource returns the WGSL program for drawing atlas regions.
// Bindings: 0 uniforms (viewport size), 1 atlas texture, 2 sampler.
func SpriteShaderSource() string {
	return spriteShaderSource
}

// CompileSpriteShader compiles the sprite program to SPIR-V words.
func CompileSpriteShader() ([]uint32, error) {
	spirv, err := naga.Compile(spriteShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile sprite shader: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("gpu: sprite shader SPIR-V length %d is not word aligned", len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}

// CreateSpriteShaderModule compiles the sprite program and creates a shader
// module on device.
func CreateSpriteShaderModule(device hal.Device) (hal.ShaderModule, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	words, err := CompileSpriteShader()
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "texatlas_sprite",
		Source: hal.ShaderSource{SPIRV: words},
	})
}

// SpriteVertex matches VertexInput in the sprite shader.
type SpriteVertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// SpriteVertexSize is the stride of SpriteVertex in a vertex buffer.
const SpriteVertexSize = 8 * 4

// AppendQuad appends two triangles drawing region r over the pixel rectangle
// (x0,y0)-(x1,y1), tinted by c. Degenerate regions append nothing.
func AppendQuad(dst []SpriteVertex, r *texatlas.TextureRegion, x0, y0, x1, y1 float32, c texatlas.RGBA) []SpriteVertex {
	if r == nil || !r.Valid() {
		return dst
	}
	cr, cg, cb, ca := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	v := func(x, y, u, w float32) SpriteVertex {
		return SpriteVertex{X: x, Y: y, U: u, V: w, R: cr, G: cg, B: cb, A: ca}
	}
	tl := v(x0, y0, r.U0, r.V0)
	tr := v(x1, y0, r.U1, r.V0)
	bl := v(x0, y1, r.U0, r.V1)
	br := v(x1, y1, r.U1, r.V1)
	return append(dst, tl, bl, tr, tr, bl, br)
}

// EncodeVertices serializes vertices for a hal vertex buffer write.
func EncodeVertices(vs []SpriteVertex) []byte {
	buf := make([]byte, 0, len(vs)*SpriteVertexSize)
	for _, v := range vs {
		for _, f := range [...]float32{v.X, v.Y, v.U, v.V, v.R, v.G, v.B, v.A} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}
