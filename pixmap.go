package texatlas

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
)

// Pixmap is a CPU-side rectangular pixel buffer in a declared PixelFormat.
// Rows are tightly packed, top row first.
type Pixmap struct {
	width  int
	height int
	format PixelFormat
	data   []byte
}

// NewPixmap creates a zeroed RGBA8 pixmap.
func NewPixmap(width, height int) *Pixmap {
	return NewPixmapFormat(width, height, FormatRGBA8)
}

// NewPixmapFormat creates a zeroed pixmap in the given format.
// Negative dimensions are treated as zero.
func NewPixmapFormat(width, height int, format PixelFormat) *Pixmap {
	width, height = max(width, 0), max(height, 0)
	return &Pixmap{
		width:  width,
		height: height,
		format: format,
		data:   make([]byte, width*height*format.PixelSize()),
	}
}

// NewPixmapFromData creates a pixmap holding a copy of data.
func NewPixmapFromData(width, height int, format PixelFormat, data []byte) (*Pixmap, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	want := width * height * format.PixelSize()
	if len(data) != want {
		return nil, fmt.Errorf("%w: %dx%d %s needs %d bytes, got %d",
			ErrDataSize, width, height, format, want, len(data))
	}
	pm := &Pixmap{width: width, height: height, format: format, data: make([]byte, want)}
	copy(pm.data, data)
	return pm, nil
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Format returns the pixel format.
func (p *Pixmap) Format() PixelFormat { return p.format }

// Data returns the raw pixel buffer. It aliases the pixmap's storage.
func (p *Pixmap) Data() []byte { return p.data }

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int { return p.width * p.format.PixelSize() }

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	c := &Pixmap{width: p.width, height: p.height, format: p.format, data: make([]byte, len(p.data))}
	copy(c.data, p.data)
	return c
}

func (p *Pixmap) offset(x, y int) (int, bool) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, false
	}
	return (y*p.width + x) * p.format.PixelSize(), true
}

// Pixel returns a copy of the raw bytes of the pixel at (x, y), or nil when
// the coordinates are out of bounds.
func (p *Pixmap) Pixel(x, y int) []byte {
	i, ok := p.offset(x, y)
	if !ok {
		return nil
	}
	px := make([]byte, p.format.PixelSize())
	copy(px, p.data[i:])
	return px
}

// SetPixelRaw overwrites the pixel at (x, y) with raw bytes in the pixmap's
// format. Out-of-bounds writes and short buffers are ignored.
func (p *Pixmap) SetPixelRaw(x, y int, px []byte) {
	i, ok := p.offset(x, y)
	if !ok || len(px) < p.format.PixelSize() {
		return
	}
	copy(p.data[i:i+p.format.PixelSize()], px)
}

// GetPixel decodes the pixel at (x, y). Channels missing from the format read
// as 0 for color and 1 for alpha. Out-of-bounds reads return Transparent.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	i, ok := p.offset(x, y)
	if !ok {
		return Transparent
	}
	ts := p.format.TypeSize()
	ch := [4]float64{0, 0, 0, 1}
	for c := 0; c < p.format.ComponentCount(); c++ {
		ch[c] = decodeChannel(p.format.DataType, p.data[i+c*ts:])
	}
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
}

// SetPixel encodes c into the pixel at (x, y). Channels the format lacks are
// dropped. Out-of-bounds writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	i, ok := p.offset(x, y)
	if !ok {
		return
	}
	p.encodeAt(i, c)
}

func (p *Pixmap) encodeAt(i int, c RGBA) {
	ts := p.format.TypeSize()
	ch := [4]float64{c.R, c.G, c.B, c.A}
	for k := 0; k < p.format.ComponentCount(); k++ {
		encodeChannel(p.format.DataType, p.data[i+k*ts:], ch[k])
	}
}

// Fill sets every pixel to the raw pixel value px.
func (p *Pixmap) Fill(px []byte) {
	ps := p.format.PixelSize()
	if len(px) < ps || len(p.data) == 0 {
		return
	}
	copy(p.data, px[:ps])
	for n := ps; n < len(p.data); n *= 2 {
		copy(p.data[n:], p.data[:n])
	}
}

// FillColor sets every pixel to c.
func (p *Pixmap) FillColor(c RGBA) {
	if len(p.data) == 0 {
		return
	}
	p.encodeAt(0, c)
	p.Fill(p.data[:p.format.PixelSize()])
}

// Clear zeroes the pixel buffer.
func (p *Pixmap) Clear() {
	clear(p.data)
}

// Convert returns a copy of p in the given format.
func (p *Pixmap) Convert(format PixelFormat) *Pixmap {
	if format == p.format {
		return p.Clone()
	}
	dst := NewPixmapFormat(p.width, p.height, format)
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			dst.SetPixel(x, y, p.GetPixel(x, y))
		}
	}
	return dst
}

// Blit copies src into p with its top-left corner at (x, y). Both pixmaps
// must share a format and src must lie fully inside p.
func (p *Pixmap) Blit(src *Pixmap, x, y int) error {
	if src == nil {
		return ErrNilPixmap
	}
	if src.format != p.format {
		return fmt.Errorf("%w: %s into %s", ErrFormatMismatch, src.format, p.format)
	}
	if x < 0 || y < 0 || x+src.width > p.width || y+src.height > p.height {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d",
			ErrInvalidDimensions, src.width, src.height, x, y, p.width, p.height)
	}
	ps := p.format.PixelSize()
	rowBytes := src.width * ps
	for row := 0; row < src.height; row++ {
		d := ((y+row)*p.width + x) * ps
		s := row * rowBytes
		copy(p.data[d:d+rowBytes], src.data[s:s+rowBytes])
	}
	return nil
}

// Scale returns p resampled to width x height with bilinear filtering.
// The result is RGBA8.
func (p *Pixmap) Scale(width, height int) *Pixmap {
	dst := image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	draw.BiLinear.Scale(dst, dst.Bounds(), p.ToImage(), p.Bounds(), draw.Src, nil)
	return fromNRGBA(dst)
}

// ToImage converts the pixmap to a straight-alpha image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	if p.format == FormatRGBA8 {
		copy(img.Pix, p.data)
		return img
	}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			r, g, b, a := p.GetPixel(x, y).bytes()
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
		}
	}
	return img
}

// FromImage creates an RGBA8 pixmap from any image.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return fromNRGBA(dst)
}

func fromNRGBA(img *image.NRGBA) *Pixmap {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pm := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		copy(pm.data[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return pm
}

// EncodePNG writes the pixmap as PNG. Only 8-bit formats can be exported.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	if !p.format.Is8Bit() {
		return fmt.Errorf("%w: PNG export needs an 8-bit format, have %s", ErrUnsupportedFormat, p.format)
	}
	return png.Encode(w, p.ToImage())
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

func decodeChannel(t DataType, b []byte) float64 {
	switch t {
	case Uint8:
		return float64(b[0]) / 255
	case Int8:
		return max(float64(int8(b[0]))/127, -1)
	case Uint32:
		return float64(binary.LittleEndian.Uint32(b)) / math.MaxUint32
	case Int32:
		return max(float64(int32(binary.LittleEndian.Uint32(b)))/math.MaxInt32, -1)
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return 0
}

func encodeChannel(t DataType, b []byte, v float64) {
	switch t {
	case Uint8:
		b[0] = unorm8(v)
	case Int8:
		b[0] = byte(int8(math.Round(clampf(v, -1, 1) * 127)))
	case Uint32:
		binary.LittleEndian.PutUint32(b, uint32(math.Round(clampf(v, 0, 1)*math.MaxUint32)))
	case Int32:
		binary.LittleEndian.PutUint32(b, uint32(int32(math.Round(clampf(v, -1, 1)*math.MaxInt32))))
	case Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	}
}

func clampf(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
