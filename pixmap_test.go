package texatlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func TestNewPixmapFromData(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		format  PixelFormat
		data    []byte
		wantErr error
	}{
		{"rgba8", 2, 1, FormatRGBA8, make([]byte, 8), nil},
		{"r8", 3, 3, FormatR8, make([]byte, 9), nil},
		{"empty", 0, 0, FormatRGBA8, nil, nil},
		{"negative", -1, 2, FormatRGBA8, nil, ErrInvalidDimensions},
		{"short", 2, 2, FormatRGBA8, make([]byte, 15), ErrDataSize},
		{"long", 1, 1, FormatRGBA32F, make([]byte, 17), ErrDataSize},
		{"bad format", 1, 1, PixelFormat{}, make([]byte, 4), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := NewPixmapFromData(tt.w, tt.h, tt.format, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewPixmapFromData() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && (pm.Width() != tt.w || pm.Height() != tt.h || pm.Format() != tt.format) {
				t.Errorf("got %dx%d %v", pm.Width(), pm.Height(), pm.Format())
			}
		})
	}
}

func TestNewPixmapFromDataCopies(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	pm, err := NewPixmapFromData(1, 1, FormatRGBA8, data)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 99
	if pm.Data()[0] != 1 {
		t.Error("pixmap aliases the caller's buffer")
	}
}

func TestPixmapSetGetPixel(t *testing.T) {
	c := RGBA{R: 1, G: 0.5, B: 0.25, A: 0.75}
	tests := []struct {
		format PixelFormat
		want   RGBA
		tol    float64
	}{
		{FormatRGBA8, c, 1.0 / 255},
		{FormatRGBA32F, c, 0},
		{FormatRGB8, RGBA{R: 1, G: 0.5, B: 0.25, A: 1}, 1.0 / 255},
		{FormatR8, RGBA{R: 1, A: 1}, 0},
		{PixelFormat{CompRG, Uint32}, RGBA{R: 1, G: 0.5, A: 1}, 1e-9},
		{PixelFormat{CompRGBA, Int8}, c, 1.0 / 127},
		{PixelFormat{CompRGBA, Int32}, c, 1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			pm := NewPixmapFormat(3, 2, tt.format)
			pm.SetPixel(2, 1, c)
			if got := pm.GetPixel(2, 1); !got.ApproxEqual(tt.want, tt.tol) {
				t.Errorf("GetPixel() = %v, want %v", got, tt.want)
			}
			if got := pm.GetPixel(0, 0); got.R != 0 || got.G != 0 || got.B != 0 {
				t.Errorf("untouched pixel = %v, want zero color", got)
			}
		})
	}
}

func TestPixmapOutOfBounds(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.SetPixel(-1, 0, Red)
	pm.SetPixel(2, 0, Red)
	pm.SetPixelRaw(0, 5, []byte{1, 2, 3, 4})
	if !bytes.Equal(pm.Data(), make([]byte, 16)) {
		t.Error("out-of-bounds write modified the buffer")
	}
	if got := pm.GetPixel(0, -1); got != Transparent {
		t.Errorf("GetPixel(0,-1) = %v, want Transparent", got)
	}
	if pm.Pixel(2, 2) != nil {
		t.Error("Pixel(2,2) is not nil")
	}
}

func TestPixmapFill(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {3, 1}, {5, 7}, {16, 16}} {
		pm := NewPixmapFormat(size[0], size[1], FormatRGB8)
		pm.Fill([]byte{10, 20, 30})
		for y := 0; y < pm.Height(); y++ {
			for x := 0; x < pm.Width(); x++ {
				if px := pm.Pixel(x, y); !bytes.Equal(px, []byte{10, 20, 30}) {
					t.Fatalf("%dx%d: Pixel(%d,%d) = %v", size[0], size[1], x, y, px)
				}
			}
		}
	}

	pm := NewPixmapFormat(4, 4, FormatRGBA32F)
	pm.FillColor(Magenta)
	if got := pm.GetPixel(3, 3); got != Magenta {
		t.Errorf("FillColor: GetPixel(3,3) = %v, want magenta", got)
	}
	pm.Clear()
	if got := pm.GetPixel(3, 3); got != Transparent {
		t.Errorf("Clear: GetPixel(3,3) = %v, want Transparent", got)
	}
}

func TestPixmapConvert(t *testing.T) {
	src := NewPixmap(2, 2)
	src.SetPixel(0, 0, Red)
	src.SetPixel(1, 1, RGBA{R: 0.2, G: 0.4, B: 0.6, A: 0.8})

	f := src.Convert(FormatRGBA32F)
	if f.Format() != FormatRGBA32F || len(f.Data()) != 2*2*16 {
		t.Fatalf("Convert() format %v, %d bytes", f.Format(), len(f.Data()))
	}
	back := f.Convert(FormatRGBA8)
	if !bytes.Equal(back.Data(), src.Data()) {
		t.Error("RGBA8 -> RGBA32F -> RGBA8 is not lossless")
	}

	r := src.Convert(FormatR8)
	if got := r.Pixel(0, 0); !bytes.Equal(got, []byte{255}) {
		t.Errorf("R8 Pixel(0,0) = %v, want [255]", got)
	}

	same := src.Convert(FormatRGBA8)
	same.SetPixel(0, 0, Blue)
	if src.GetPixel(0, 0) != Red {
		t.Error("Convert to the same format aliases the source")
	}
}

func TestPixmapBlit(t *testing.T) {
	dst := NewPixmap(4, 4)
	src := NewPixmap(2, 2)
	src.FillColor(Green)

	if err := dst.Blit(src, 2, 1); err != nil {
		t.Fatalf("Blit() error = %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := Transparent
			if x >= 2 && y >= 1 && y < 3 {
				want = Green
			}
			if got := dst.GetPixel(x, y); got != want {
				t.Errorf("GetPixel(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	tests := []struct {
		name string
		src  *Pixmap
		x, y int
		want error
	}{
		{"nil", nil, 0, 0, ErrNilPixmap},
		{"format", NewPixmapFormat(1, 1, FormatR8), 0, 0, ErrFormatMismatch},
		{"right edge", src, 3, 0, ErrInvalidDimensions},
		{"negative", src, -1, 0, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := dst.Blit(tt.src, tt.x, tt.y); !errors.Is(err, tt.want) {
				t.Errorf("Blit() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPixmapImageInterop(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	img.Set(12, 11, color.RGBA{B: 255, A: 255})

	pm := FromImage(img)
	if pm.Width() != 3 || pm.Height() != 2 {
		t.Fatalf("FromImage() = %dx%d, want 3x2", pm.Width(), pm.Height())
	}
	if pm.GetPixel(0, 0) != Red || pm.GetPixel(2, 1) != Blue {
		t.Errorf("FromImage() did not translate the bounds origin")
	}

	var _ image.Image = pm
	out := pm.ToImage()
	if got := out.NRGBAAt(2, 1); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("ToImage() pixel = %v", got)
	}
	if c := pm.At(0, 0); c != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("At(0,0) = %v", c)
	}
}

func TestPixmapScale(t *testing.T) {
	pm := NewPixmap(4, 4)
	pm.FillColor(Blue)
	s := pm.Scale(8, 2)
	if s.Width() != 8 || s.Height() != 2 {
		t.Fatalf("Scale() = %dx%d, want 8x2", s.Width(), s.Height())
	}
	if got := s.GetPixel(4, 1); !got.ApproxEqual(Blue, 1.0/255) {
		t.Errorf("Scale() pixel = %v, want blue", got)
	}
}

func TestPixmapEncodePNG(t *testing.T) {
	pm := NewPixmapFormat(2, 2, FormatRGB8)
	pm.FillColor(Red)

	var buf bytes.Buffer
	if err := pm.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if r, g, b, a := img.At(1, 1).RGBA(); r != 0xffff || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("decoded pixel = %d %d %d %d, want opaque red", r, g, b, a)
	}

	f := NewPixmapFormat(2, 2, FormatRGBA32F)
	if err := f.EncodePNG(&buf); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("EncodePNG(RGBA32F) error = %v, want ErrUnsupportedFormat", err)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := pm.SavePNG(path); err != nil {
		t.Errorf("SavePNG() error = %v", err)
	}
}

func TestChannelCodecClamps(t *testing.T) {
	b := make([]byte, 4)
	encodeChannel(Int8, b, -3)
	if got := decodeChannel(Int8, b); got != -1 {
		t.Errorf("Int8 clamp = %v, want -1", got)
	}
	encodeChannel(Uint32, b, 2)
	if got := decodeChannel(Uint32, b); got != 1 {
		t.Errorf("Uint32 clamp = %v, want 1", got)
	}
	encodeChannel(Float32, b, 3.5)
	if got := decodeChannel(Float32, b); got != 3.5 {
		t.Errorf("Float32 = %v, want 3.5 unclamped", got)
	}
}
