// Package opengl stores atlas textures as OpenGL 4.1 core textures.
//
// Every call must happen on the goroutine that owns the current GL context.
// Importing the package registers the "opengl" backend; its Init fails
// until a context is current, so backend.InitDefault falls through to the
// next backend.
package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/texatlas"
)

// glFormat describes how a PixelFormat is stored and uploaded.
type glFormat struct {
	internal int32
	format   uint32
	xtype    uint32
	// upload is the pixmap format the data is converted to before upload.
	upload texatlas.PixelFormat
}

func lookupFormat(f texatlas.PixelFormat) glFormat {
	byteFormats := map[texatlas.Components]glFormat{
		texatlas.CompR:    {gl.R8, gl.RED, gl.UNSIGNED_BYTE, f},
		texatlas.CompRG:   {gl.RG8, gl.RG, gl.UNSIGNED_BYTE, f},
		texatlas.CompRGB:  {gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE, f},
		texatlas.CompRGBA: {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, f},
	}
	floatFormats := map[texatlas.Components]glFormat{
		texatlas.CompR:    {gl.R32F, gl.RED, gl.FLOAT, f},
		texatlas.CompRG:   {gl.RG32F, gl.RG, gl.FLOAT, f},
		texatlas.CompRGB:  {gl.RGB32F, gl.RGB, gl.FLOAT, f},
		texatlas.CompRGBA: {gl.RGBA32F, gl.RGBA, gl.FLOAT, f},
	}

	switch f.DataType {
	case texatlas.Uint8:
		if g, ok := byteFormats[f.Components]; ok {
			return g
		}
	case texatlas.Float32:
		if g, ok := floatFormats[f.Components]; ok {
			return g
		}
	}
	// Signed and 32-bit integer data are normalized; store them as RGBA8.
	return glFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, texatlas.FormatRGBA8}
}

// Texture is a texatlas.Texture backed by a GL texture object.
type Texture struct {
	id     uint32
	width  int
	height int
	format texatlas.PixelFormat
	glf    glFormat
	shadow *texatlas.Pixmap
}

// New allocates an empty GL texture. A GL context must be current.
func New(width, height int, format texatlas.PixelFormat) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", texatlas.ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", texatlas.ErrUnsupportedFormat, format)
	}

	g := lookupFormat(format)
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return nil, fmt.Errorf("opengl: glGenTextures returned 0 (no current context?)")
	}
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		g.internal,
		int32(width),
		int32(height),
		0,
		g.format,
		g.xtype,
		nil,
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{
		id:     id,
		width:  width,
		height: height,
		format: format,
		glf:    g,
		shadow: texatlas.NewPixmapFormat(width, height, format),
	}, nil
}

// Factory is a texatlas.TextureFactory producing GL textures.
func Factory(width, height int, format texatlas.PixelFormat) (texatlas.Texture, error) {
	return New(width, height, format)
}

func (t *Texture) Width() int                   { return t.width }
func (t *Texture) Height() int                  { return t.height }
func (t *Texture) Format() texatlas.PixelFormat { return t.format }

// ID returns the GL texture name, or 0 after Destroy.
func (t *Texture) ID() uint32 { return t.id }

// UpdatePixmap replaces the texture contents with glTexSubImage2D.
func (t *Texture) UpdatePixmap(pm *texatlas.Pixmap) error {
	if pm == nil {
		return texatlas.ErrNilPixmap
	}
	if pm.Width() != t.width || pm.Height() != t.height {
		return fmt.Errorf("%w: texture is %dx%d, pixmap is %dx%d",
			texatlas.ErrInvalidDimensions, t.width, t.height, pm.Width(), pm.Height())
	}
	if t.id == 0 {
		return texatlas.ErrTextureDestroyed
	}

	data := pm.Convert(t.glf.upload).Data()
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(
		gl.TEXTURE_2D,
		0,
		0, 0,
		int32(t.width),
		int32(t.height),
		t.glf.format,
		t.glf.xtype,
		unsafe.Pointer(&data[0]),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t.shadow = pm.Convert(t.format)
	return nil
}

// Pixmap returns a copy of the last uploaded contents.
func (t *Texture) Pixmap() (*texatlas.Pixmap, error) {
	if t.id == 0 {
		return nil, texatlas.ErrTextureDestroyed
	}
	return t.shadow.Clone(), nil
}

// Destroy deletes the GL texture.
func (t *Texture) Destroy() {
	if t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	t.shadow = nil
}
