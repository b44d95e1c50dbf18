package texatlas

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/texatlas/packer"
)

func solid(w, h int, c RGBA) *Pixmap {
	pm := NewPixmap(w, h)
	pm.FillColor(c)
	return pm
}

// sampleCenter samples the atlas texture at the UV center of Get(i).
func sampleCenter(t *testing.T, a *TextureAtlas, i int) RGBA {
	t.Helper()
	r := a.Get(i)
	defer r.Release()
	if !r.Valid() {
		t.Fatalf("Get(%d) returned a degenerate region", i)
	}
	st, ok := r.Texture().Texture().(*SoftwareTexture)
	if !ok {
		t.Fatalf("atlas texture is %T, want *SoftwareTexture", r.Texture().Texture())
	}
	return st.Sample((r.U0+r.U1)/2, (r.V0+r.V1)/2)
}

func softwareTexture(t *testing.T, a *TextureAtlas) *SoftwareTexture {
	t.Helper()
	tex := a.Texture()
	defer tex.Release()
	return tex.Texture().(*SoftwareTexture)
}

func TestAtlasEmpty(t *testing.T) {
	a, err := New(WithCanvasSize(16))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	for _, i := range []int{-1, 0, 1} {
		r := a.Get(i)
		if r.Valid() {
			t.Errorf("Get(%d) is valid on an empty atlas", i)
		}
		if r.U0 != 0 || r.V0 != 0 || r.U1 != 1 || r.V1 != 1 {
			t.Errorf("Get(%d) UVs = %v, want (0,0)-(1,1)", i, r)
		}
		r.Release()
	}
}

func TestAtlasRedBlueScenario(t *testing.T) {
	a, err := NewFromPixmaps([]*Pixmap{solid(2, 2, Red), solid(2, 2, Blue)}, WithCanvasSize(4))
	if err != nil {
		t.Fatalf("NewFromPixmaps() error = %v", err)
	}
	defer a.Close()

	p0, _ := a.Placement(0)
	p1, _ := a.Placement(1)
	if p0.Intersects(p1) || !p0.Inside(4) || !p1.Inside(4) {
		t.Errorf("placements %v, %v overlap or leave the 4x4 canvas", p0, p1)
	}
	if got := sampleCenter(t, a, 0); !got.ApproxEqual(Red, 0) {
		t.Errorf("Get(0) samples %v, want red", got)
	}
	if got := sampleCenter(t, a, 1); !got.ApproxEqual(Blue, 0) {
		t.Errorf("Get(1) samples %v, want blue", got)
	}
}

func TestAtlasCapacityExceeded(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	pms := []*Pixmap{solid(2, 2, Red), solid(2, 2, Green), solid(2, 2, Blue)}
	a, err := NewFromPixmaps(pms, WithCanvasSize(2))
	if a != nil {
		t.Error("NewFromPixmaps() returned an atlas on capacity failure")
	}
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("NewFromPixmaps() error = %v, want ErrCapacityExceeded", err)
	}
	var ce *packer.CapacityError
	if !errors.As(err, &ce) || ce.Count != 3 || ce.TotalArea != 12 {
		t.Errorf("CapacityError = %+v, want Count=3 TotalArea=12", ce)
	}
	for _, want := range []string{"do not fit", "images=3", "canvas=2", "total_area=12"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output %q missing %q", buf.String(), want)
		}
	}
}

func TestAtlasInsertionOrderStability(t *testing.T) {
	sizes := [][2]int{{2, 2}, {6, 6}, {3, 5}, {5, 1}, {1, 7}, {4, 4}}
	colors := make([]RGBA, len(sizes))
	pms := make([]*Pixmap, len(sizes))
	for i, s := range sizes {
		colors[i] = RGB(float64(i+1)/8, 1-float64(i)/8, 0.5)
		pms[i] = solid(s[0], s[1], colors[i])
	}

	for _, h := range []packer.Heuristic{packer.Skyline, packer.Shelf} {
		t.Run(h.String(), func(t *testing.T) {
			a, err := NewFromPixmaps(pms, WithCanvasSize(16), WithHeuristic(h))
			if err != nil {
				t.Fatalf("NewFromPixmaps() error = %v", err)
			}
			defer a.Close()

			for i := range sizes {
				p, ok := a.Placement(i)
				if !ok || p.W != sizes[i][0] || p.H != sizes[i][1] {
					t.Errorf("Placement(%d) = %v, want %dx%d", i, p, sizes[i][0], sizes[i][1])
				}
				if got := sampleCenter(t, a, i); !got.ApproxEqual(colors[i], 1.0/255) {
					t.Errorf("Get(%d) samples %v, want %v", i, got, colors[i])
				}
			}
		})
	}
}

func TestAtlasAddRepacksAfterConstruction(t *testing.T) {
	a, err := New(WithCanvasSize(8))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	st := softwareTexture(t, a)
	v0 := a.Version()

	idx, err := a.Add(solid(4, 4, Red))
	if err != nil || idx != 0 {
		t.Fatalf("Add() = %d, %v; want 0, nil", idx, err)
	}
	idx, err = a.Add(solid(2, 6, Green))
	if err != nil || idx != 1 {
		t.Fatalf("Add() = %d, %v; want 1, nil", idx, err)
	}

	if a.Version() != v0+2 {
		t.Errorf("Version() = %d, want %d", a.Version(), v0+2)
	}
	if st.Uploads() != 3 {
		t.Errorf("Uploads() = %d, want 3 (construction + two adds)", st.Uploads())
	}
	if got := sampleCenter(t, a, 0); !got.ApproxEqual(Red, 0) {
		t.Errorf("Get(0) samples %v, want red", got)
	}
	if got := sampleCenter(t, a, 1); !got.ApproxEqual(Green, 0) {
		t.Errorf("Get(1) samples %v, want green", got)
	}
}

func TestAtlasFailedAddKeepsPreviousState(t *testing.T) {
	a, err := NewFromPixmaps([]*Pixmap{solid(4, 4, Red)}, WithCanvasSize(4))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	st := softwareTexture(t, a)
	version, uploads := a.Version(), st.Uploads()

	if _, err := a.Add(solid(1, 1, Blue)); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Add() error = %v, want ErrCapacityExceeded", err)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
	if a.Version() != version || st.Uploads() != uploads {
		t.Error("failed Add changed the atlas version or texture")
	}
	if got := sampleCenter(t, a, 0); !got.ApproxEqual(Red, 0) {
		t.Errorf("Get(0) samples %v, want red", got)
	}
	if r := a.Get(1); r.Valid() {
		t.Error("rejected image is addressable")
	}
}

func TestAtlasAddAllSingleRepack(t *testing.T) {
	a, err := New(WithCanvasSize(16))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	st := softwareTexture(t, a)

	first, err := a.AddAll(solid(4, 4, Red), nil, solid(4, 4, Green), solid(4, 4, Blue))
	if err != nil || first != 0 {
		t.Fatalf("AddAll() = %d, %v", first, err)
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
	if st.Uploads() != 2 {
		t.Errorf("Uploads() = %d, want 2", st.Uploads())
	}

	if _, err := a.AddAll(solid(16, 16, Red)); err == nil {
		t.Fatal("AddAll() of an oversized image succeeded")
	}
	if a.Len() != 3 {
		t.Errorf("Len() after failed AddAll = %d, want 3", a.Len())
	}
}

func TestAtlasGetUV(t *testing.T) {
	a, err := NewFromPixmaps([]*Pixmap{solid(8, 4, Red)}, WithCanvasSize(16))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	p, _ := a.Placement(0)
	r := a.GetUV(0, Vec2{0.5, 0}, Vec2{1, 0.5})
	defer r.Release()

	want := [4]float32{
		float32(p.X+4) / 16, float32(p.Y) / 16,
		float32(p.X+8) / 16, float32(p.Y+2) / 16,
	}
	got := [4]float32{r.U0, r.V0, r.U1, r.V1}
	if got != want {
		t.Errorf("GetUV() = %v, want %v", got, want)
	}
	if w, h := r.Size(); w != 4 || h != 2 {
		t.Errorf("Size() = %vx%v, want 4x2", w, h)
	}

	full := a.Get(0)
	defer full.Release()
	if full.U1-full.U0 != 8.0/16 || full.V1-full.V0 != 4.0/16 {
		t.Errorf("Get(0) spans %v x %v, want 0.5 x 0.25", full.U1-full.U0, full.V1-full.V0)
	}
}

func TestAtlasTextureReferenceCounting(t *testing.T) {
	a, err := NewFromPixmaps([]*Pixmap{solid(2, 2, Red)}, WithCanvasSize(4))
	if err != nil {
		t.Fatal(err)
	}
	st := softwareTexture(t, a)

	tex := a.Texture()
	if tex.RefCount() != 2 {
		t.Errorf("RefCount() after Texture() = %d, want 2", tex.RefCount())
	}
	r1 := a.Get(0)
	r2 := a.Get(0)
	if tex.RefCount() != 4 {
		t.Errorf("RefCount() with two regions = %d, want 4", tex.RefCount())
	}

	a.Close()
	tex.Release()
	r1.Release()
	r1.Release()
	if st.Destroyed() {
		t.Fatal("texture destroyed while a region still holds it")
	}
	r2.Release()
	if !st.Destroyed() {
		t.Error("texture not destroyed after the last holder released it")
	}
}

func TestAtlasRegionsGoStaleAfterRepack(t *testing.T) {
	a, err := NewFromPixmaps([]*Pixmap{solid(2, 2, Red)}, WithCanvasSize(8))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	r := a.Get(0)
	defer r.Release()
	if r.Stale() {
		t.Fatal("fresh region reports stale")
	}
	if _, err := a.Add(solid(4, 4, Blue)); err != nil {
		t.Fatal(err)
	}
	if !r.Stale() {
		t.Error("region not stale after Add repacked the atlas")
	}
}

func TestAtlasFromTextures(t *testing.T) {
	red, err := NewTextureFromPixmap(SoftwareFactory, solid(3, 3, Red))
	if err != nil {
		t.Fatal(err)
	}
	blue, err := NewTextureFromPixmap(nil, solid(2, 5, Blue))
	if err != nil {
		t.Fatal(err)
	}

	a, err := NewFromTextures([]*SharedTexture{red, nil}, WithCanvasSize(8))
	if err != nil {
		t.Fatalf("NewFromTextures() error = %v", err)
	}
	defer a.Close()
	if red.RefCount() != 1 {
		t.Errorf("NewFromTextures changed the caller's refcount to %d", red.RefCount())
	}

	idx, err := a.AddTexture(blue)
	if err != nil || idx != 1 {
		t.Fatalf("AddTexture() = %d, %v", idx, err)
	}
	if blue.RefCount() != 0 || !blue.Texture().(*SoftwareTexture).Destroyed() {
		t.Error("AddTexture did not release the caller's reference")
	}
	if got := sampleCenter(t, a, 0); !got.ApproxEqual(Red, 0) {
		t.Errorf("Get(0) samples %v, want red", got)
	}
	if got := sampleCenter(t, a, 1); !got.ApproxEqual(Blue, 0) {
		t.Errorf("Get(1) samples %v, want blue", got)
	}
	red.Release()
}

func TestAtlasFloatFormat(t *testing.T) {
	a, err := NewFromPixmaps([]*Pixmap{solid(2, 2, Green), solid(1, 3, Magenta)},
		WithCanvasSize(8), WithFormat(FormatRGBA32F))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if f := softwareTexture(t, a).Format(); f != FormatRGBA32F {
		t.Fatalf("texture format = %v, want RGBA32F", f)
	}
	if got := sampleCenter(t, a, 1); !got.ApproxEqual(Magenta, 1e-6) {
		t.Errorf("Get(1) samples %v, want magenta", got)
	}
}

func TestAtlasPaddingKeepsImagesApart(t *testing.T) {
	pms := []*Pixmap{solid(3, 3, Red), solid(3, 3, Green), solid(3, 3, Blue)}
	a, err := NewFromPixmaps(pms, WithCanvasSize(16), WithPadding(2))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	for i := 0; i < a.Len(); i++ {
		for j := i + 1; j < a.Len(); j++ {
			pi, _ := a.Placement(i)
			pj, _ := a.Placement(j)
			grown := packer.Rect{X: pi.X - 1, Y: pi.Y - 1, W: pi.W + 2, H: pi.H + 2}
			if grown.Intersects(pj) {
				t.Errorf("placements %v and %v are closer than the padding", pi, pj)
			}
		}
	}
}

func TestAtlasFactoryError(t *testing.T) {
	boom := errors.New("no device")
	_, err := New(WithTextureFactory(func(int, int, PixelFormat) (Texture, error) { return nil, boom }))
	if !errors.Is(err, boom) {
		t.Errorf("New() error = %v, want %v", err, boom)
	}
}

func TestAtlasClosed(t *testing.T) {
	a, err := New(WithCanvasSize(8))
	if err != nil {
		t.Fatal(err)
	}
	a.Close()
	a.Close()

	if _, err := a.Add(solid(1, 1, Red)); !errors.Is(err, ErrAtlasClosed) {
		t.Errorf("Add() after Close error = %v, want ErrAtlasClosed", err)
	}
	if a.Texture() != nil {
		t.Error("Texture() after Close is not nil")
	}
	if r := a.Get(0); r.Valid() {
		t.Error("Get() after Close returned a valid region")
	}
}

func TestAtlasNilInputs(t *testing.T) {
	a, err := New(WithCanvasSize(8))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if _, err := a.Add(nil); !errors.Is(err, ErrNilPixmap) {
		t.Errorf("Add(nil) error = %v, want ErrNilPixmap", err)
	}
	if _, err := a.AddTexture(nil); !errors.Is(err, ErrNilTexture) {
		t.Errorf("AddTexture(nil) error = %v, want ErrNilTexture", err)
	}
}
