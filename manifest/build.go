package manifest

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"log/slog"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding

	"github.com/gogpu/texatlas"
)

// Built is an atlas produced from a manifest.
type Built struct {
	Atlas *texatlas.TextureAtlas

	// Names holds the image name for each atlas index.
	Names []string

	index map[string]int
}

// Build decodes every image of m and packs them into one atlas. Relative
// image paths are resolved against baseDir. opts are applied after the
// manifest settings and override them.
func Build(m *Manifest, baseDir string, opts ...texatlas.Option) (*Built, error) {
	mopts, err := m.Options()
	if err != nil {
		return nil, err
	}

	pms := make([]*texatlas.Pixmap, len(m.Images))
	names := make([]string, len(m.Images))
	for i, img := range m.Images {
		path := img.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		pm, err := LoadImage(path)
		if err != nil {
			return nil, fmt.Errorf("manifest: image %q: %w", img.Name, err)
		}
		if w, h := img.size(pm.Width(), pm.Height()); w != pm.Width() || h != pm.Height() {
			texatlas.Logger().Debug("manifest: image resampled",
				slog.String("name", img.Name),
				slog.Int("width", w),
				slog.Int("height", h))
			pm = pm.Scale(w, h)
		}
		pms[i] = pm
		names[i] = img.Name
	}

	atlas, err := texatlas.NewFromPixmaps(pms, append(mopts, opts...)...)
	if err != nil {
		return nil, err
	}
	texatlas.Logger().Info("manifest: atlas built",
		slog.Int("images", len(names)),
		slog.Float64("utilization", atlas.Utilization()))

	b := &Built{Atlas: atlas, Names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		b.index[n] = i
	}
	return b, nil
}

// Index returns the atlas index of the named image.
func (b *Built) Index(name string) (int, bool) {
	i, ok := b.index[name]
	return i, ok
}

// Region returns the region of the named image. Unknown names yield the
// degenerate region.
func (b *Built) Region(name string) texatlas.TextureRegion {
	i, ok := b.index[name]
	if !ok {
		i = -1
	}
	return b.Atlas.Get(i)
}

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file into an RGBA8
// pixmap.
func LoadImage(path string) (*texatlas.Pixmap, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the manifest
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	texatlas.Logger().Debug("manifest: image decoded",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()))
	return texatlas.FromImage(img), nil
}
