// Command atlaspack packs the images listed in a TOML manifest, or the glyphs
// of a charset, into one texture atlas and writes it as PNG together with a
// TOML table of the packed regions.
//
// Usage:
//
//	atlaspack -manifest sprites.toml -out sprites.png -regions sprites.regions.toml
//	atlaspack -glyphs "0123456789" -font-size 32 -out digits.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/texatlas"
	"github.com/gogpu/texatlas/backend"
	_ "github.com/gogpu/texatlas/backend/ebitentex" // register the "ebiten" backend
	_ "github.com/gogpu/texatlas/backend/opengl"    // register the "opengl" backend
	"github.com/gogpu/texatlas/glyph"
	"github.com/gogpu/texatlas/layoutcache"
	"github.com/gogpu/texatlas/manifest"
)

// exitCapacity is the exit status when the images do not fit the canvas.
const exitCapacity = 2

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Print(err)
		if errors.Is(err, texatlas.ErrCapacityExceeded) {
			os.Exit(exitCapacity)
		}
		os.Exit(1)
	}
}

type flags struct {
	manifest string
	glyphs   string
	fontSize float64
	canvas   int
	out      string
	regions  string
	cache    string
	backend  string
	verbose  bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("atlaspack", flag.ContinueOnError)
	fs.StringVar(&f.manifest, "manifest", "", "TOML manifest listing the images to pack")
	fs.StringVar(&f.glyphs, "glyphs", "", "pack the glyphs of this charset instead of a manifest")
	fs.Float64Var(&f.fontSize, "font-size", 24, "glyph size in pixels per em")
	fs.IntVar(&f.canvas, "canvas", 0, "canvas side length, overrides the manifest")
	fs.StringVar(&f.out, "out", "atlas.png", "output PNG file")
	fs.StringVar(&f.regions, "regions", "", "output TOML region table (manifest mode only)")
	fs.StringVar(&f.cache, "cache", "", "LevelDB directory for cached layouts")
	fs.StringVar(&f.backend, "backend", backend.BackendSoftware, `texture backend, or "auto" for the best available`)
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if (f.manifest == "") == (f.glyphs == "") {
		return nil, errors.New("exactly one of -manifest and -glyphs is required")
	}
	return f, nil
}

func run(args []string, stdout io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.verbose {
		texatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	be, err := selectBackend(f.backend)
	if err != nil {
		return err
	}
	defer be.Close()

	opts := []texatlas.Option{texatlas.WithTextureFactory(be.Factory())}
	if f.canvas > 0 {
		opts = append(opts, texatlas.WithCanvasSize(f.canvas))
	}
	if f.cache != "" {
		cache, err := layoutcache.Open(f.cache)
		if err != nil {
			return fmt.Errorf("open layout cache: %w", err)
		}
		defer cache.Close()
		opts = append(opts, texatlas.WithLayoutCache(cache))
	}

	var atlas *texatlas.TextureAtlas
	if f.glyphs != "" {
		atlas, err = packGlyphs(f, opts)
	} else {
		atlas, err = packManifest(f, opts)
	}
	if err != nil {
		return err
	}
	defer atlas.Close()

	tex := atlas.Texture()
	defer tex.Release()
	pm, err := tex.Texture().Pixmap()
	if err != nil {
		return fmt.Errorf("read atlas texture: %w", err)
	}
	if pm.Format() != texatlas.FormatRGBA8 {
		pm = pm.Convert(texatlas.FormatRGBA8)
	}
	if err := pm.SavePNG(f.out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "packed %d images into %s (%dx%d, %.1f%% used, %s backend)\n",
		atlas.Len(), f.out, pm.Width(), pm.Height(), atlas.Utilization()*100, be.Name())
	return nil
}

func selectBackend(name string) (backend.TextureBackend, error) {
	if name == "auto" {
		return backend.InitDefault()
	}
	be := backend.Get(name)
	if be == nil {
		return nil, fmt.Errorf("%w: %q (available: %v)", backend.ErrBackendNotAvailable, name, backend.Available())
	}
	if err := be.Init(); err != nil {
		return nil, fmt.Errorf("init %s backend: %w", name, err)
	}
	return be, nil
}

func packManifest(f *flags, opts []texatlas.Option) (*texatlas.TextureAtlas, error) {
	m, err := manifest.Load(f.manifest)
	if err != nil {
		return nil, err
	}
	built, err := manifest.Build(m, filepath.Dir(f.manifest), opts...)
	if err != nil {
		return nil, err
	}
	if f.regions == "" {
		return built.Atlas, nil
	}

	if err := writeRegionsFile(f.regions, built); err != nil {
		built.Atlas.Close()
		return nil, err
	}
	return built.Atlas, nil
}

func writeRegionsFile(path string, built *manifest.Built) error {
	out, err := os.Create(path) //nolint:gosec // path is a command-line argument
	if err != nil {
		return err
	}
	if err := manifest.WriteRegions(out, built); err != nil {
		_ = out.Close()
		return fmt.Errorf("write regions: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write regions: %w", err)
	}
	return nil
}

func packGlyphs(f *flags, opts []texatlas.Option) (*texatlas.TextureAtlas, error) {
	face, err := glyph.DefaultFace(f.fontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	sheet, err := glyph.NewAtlas(face, f.glyphs, opts...)
	if err != nil {
		return nil, err
	}
	return sheet.Atlas, nil
}
