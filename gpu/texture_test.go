//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texatlas"
	"github.com/gogpu/wgpu/hal/noop"
)

// newNoopFactory returns a factory on a noop hal device.
func newNoopFactory(t *testing.T) *Factory {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop instance has no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})

	f, err := NewFactory(openDev.Device, openDev.Queue)
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	return f
}

func solid(w, h int, c texatlas.RGBA) *texatlas.Pixmap {
	pm := texatlas.NewPixmap(w, h)
	pm.FillColor(c)
	return pm
}

func TestAtlasOnDevice(t *testing.T) {
	f := newNoopFactory(t)
	atlas, err := texatlas.NewFromPixmaps(
		[]*texatlas.Pixmap{solid(2, 2, texatlas.Red), solid(2, 2, texatlas.Blue)},
		texatlas.WithCanvasSize(4),
		texatlas.WithTextureFactory(f.Create),
	)
	if err != nil {
		t.Fatalf("NewFromPixmaps() error = %v", err)
	}
	defer atlas.Close()

	shared := atlas.Texture()
	defer shared.Release()
	tex, ok := shared.Texture().(*Texture)
	if !ok {
		t.Fatalf("atlas texture is %T, want *gpu.Texture", shared.Texture())
	}
	if tex.Width() != 4 || tex.Height() != 4 || tex.Format() != texatlas.FormatRGBA8 {
		t.Errorf("texture = %dx%d %s", tex.Width(), tex.Height(), tex.Format())
	}
	if tex.HalFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("HalFormat() = %v, want RGBA8Unorm", tex.HalFormat())
	}
	if tex.Label() != "texatlas_1" || tex.View() == nil {
		t.Errorf("Label() = %q, View() = %v", tex.Label(), tex.View())
	}

	shadow, err := tex.Pixmap()
	if err != nil {
		t.Fatalf("Pixmap() error = %v", err)
	}
	for i, want := range []texatlas.RGBA{texatlas.Red, texatlas.Blue} {
		r, ok := atlas.Placement(i)
		if !ok {
			t.Fatalf("Placement(%d) missing", i)
		}
		if got := shadow.GetPixel(r.X, r.Y); got != want {
			t.Errorf("pixel of image %d at (%d,%d) = %v, want %v", i, r.X, r.Y, got, want)
		}

		region := atlas.Get(i)
		wantU0 := float32(r.X) / 4
		if region.U0 != wantU0 || region.U1 != wantU0+0.5 {
			t.Errorf("Get(%d) = %v, want U %v..%v", i, region, wantU0, wantU0+0.5)
		}
		region.Release()
	}
}

func TestTextureDestroy(t *testing.T) {
	f := newNoopFactory(t)
	created, err := f.Create(4, 4, texatlas.FormatRGBA8)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	tex := created.(*Texture)

	tex.Destroy()
	tex.Destroy()

	if tex.View() != nil {
		t.Error("View() after Destroy is not nil")
	}
	if err := tex.UpdatePixmap(texatlas.NewPixmap(4, 4)); !errors.Is(err, texatlas.ErrTextureDestroyed) {
		t.Errorf("UpdatePixmap() after Destroy error = %v, want ErrTextureDestroyed", err)
	}
	if _, err := tex.Pixmap(); !errors.Is(err, texatlas.ErrTextureDestroyed) {
		t.Errorf("Pixmap() after Destroy error = %v, want ErrTextureDestroyed", err)
	}
}

func TestTextureUpdateValidation(t *testing.T) {
	f := newNoopFactory(t)
	tex, err := f.Create(4, 4, texatlas.FormatRGBA8)
	if err != nil {
		t.Fatal(err)
	}
	defer tex.Destroy()

	if err := tex.UpdatePixmap(nil); !errors.Is(err, texatlas.ErrNilPixmap) {
		t.Errorf("UpdatePixmap(nil) error = %v", err)
	}
	if err := tex.UpdatePixmap(texatlas.NewPixmap(2, 4)); !errors.Is(err, texatlas.ErrInvalidDimensions) {
		t.Errorf("UpdatePixmap(2x4) error = %v, want ErrInvalidDimensions", err)
	}

	// Formats without a native mapping are converted on upload but keep
	// their own format in the shadow copy.
	ftex, err := f.Create(2, 2, texatlas.FormatRGBA32F)
	if err != nil {
		t.Fatal(err)
	}
	defer ftex.Destroy()
	src := texatlas.NewPixmapFormat(2, 2, texatlas.FormatRGBA32F)
	src.FillColor(texatlas.RGBA{R: 0.25, G: 0.5, B: 0.75, A: 1})
	if err := ftex.UpdatePixmap(src); err != nil {
		t.Fatalf("UpdatePixmap(RGBA32F) error = %v", err)
	}
	got, err := ftex.Pixmap()
	if err != nil {
		t.Fatal(err)
	}
	if got.Format() != texatlas.FormatRGBA32F || got.GetPixel(1, 1) != src.GetPixel(1, 1) {
		t.Errorf("shadow = %s %v, want RGBA32F %v", got.Format(), got.GetPixel(1, 1), src.GetPixel(1, 1))
	}
}

func TestFactoryCreate(t *testing.T) {
	f := newNoopFactory(t)

	tests := []struct {
		name   string
		w, h   int
		format texatlas.PixelFormat
		want   error
	}{
		{"zero width", 0, 4, texatlas.FormatRGBA8, texatlas.ErrInvalidDimensions},
		{"too large", texatlas.MaxCanvasSize + 1, 4, texatlas.FormatRGBA8, texatlas.ErrInvalidDimensions},
		{"invalid format", 4, 4, texatlas.PixelFormat{}, texatlas.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Create(tt.w, tt.h, tt.format); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}

	f.surfaceFormat = gputypes.TextureFormatBGRA8Unorm
	tex, err := f.Create(2, 2, texatlas.FormatRGBA8)
	if err != nil {
		t.Fatal(err)
	}
	defer tex.Destroy()
	if got := tex.(*Texture).HalFormat(); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("HalFormat() on a BGRA surface = %v, want BGRA8Unorm", got)
	}
	if err := tex.UpdatePixmap(solid(2, 2, texatlas.Red)); err != nil {
		t.Fatal(err)
	}
	pm, _ := tex.Pixmap()
	if got := pm.GetPixel(0, 0); got != texatlas.Red {
		t.Errorf("shadow pixel on a BGRA texture = %v, want red", got)
	}
}
