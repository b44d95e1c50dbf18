// Package manifest builds texture atlases from a TOML description.
//
// A manifest names the images to pack and the atlas settings:
//
//	[atlas]
//	canvas = 1024
//	padding = 1
//	heuristic = "skyline"
//	format = "rgba8"
//
//	[[image]]
//	name = "player"
//	path = "sprites/player.png"
//
//	[[image]]
//	name = "coin"
//	path = "sprites/coin.gif"
//	width = 16
//
// Image order in the manifest is the atlas index order. An image with width
// or height set is resampled to that size before packing; when only one is
// given the other follows the aspect ratio.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/texatlas"
	"github.com/gogpu/texatlas/packer"
)

// Manifest errors.
var (
	// ErrInvalidManifest is returned for structurally invalid manifests.
	ErrInvalidManifest = errors.New("manifest: invalid manifest")
)

// Manifest is the decoded form of a manifest file.
type Manifest struct {
	Atlas  Settings `toml:"atlas"`
	Images []Image  `toml:"image"`
}

// Settings is the [atlas] table. Zero values select the texatlas defaults.
type Settings struct {
	Canvas    int    `toml:"canvas"`
	Padding   int    `toml:"padding"`
	Heuristic string `toml:"heuristic"`
	Format    string `toml:"format"`
}

// Image is one [[image]] entry. Relative paths are resolved against the
// directory passed to Build.
type Image struct {
	Name   string `toml:"name"`
	Path   string `toml:"path"`
	Width  int    `toml:"width,omitempty"`
	Height int    `toml:"height,omitempty"`
}

// size returns the packed size for an image decoded at w x h.
func (img Image) size(w, h int) (int, int) {
	switch {
	case img.Width > 0 && img.Height > 0:
		return img.Width, img.Height
	case img.Width > 0 && w > 0:
		return img.Width, max(1, int(math.Round(float64(h)*float64(img.Width)/float64(w))))
	case img.Height > 0 && h > 0:
		return max(1, int(math.Round(float64(w)*float64(img.Height)/float64(h)))), img.Height
	}
	return w, h
}

// Decode reads a manifest from r. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads the manifest file at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("%w: unknown keys %s", ErrInvalidManifest, strings.Join(names, ", "))
}

// Validate checks that every image has a unique name and a path.
func (m *Manifest) Validate() error {
	seen := make(map[string]int, len(m.Images))
	for i, img := range m.Images {
		if img.Name == "" {
			return fmt.Errorf("%w: image %d has no name", ErrInvalidManifest, i)
		}
		if img.Path == "" {
			return fmt.Errorf("%w: image %q has no path", ErrInvalidManifest, img.Name)
		}
		if img.Width < 0 || img.Height < 0 {
			return fmt.Errorf("%w: image %q has a negative size", ErrInvalidManifest, img.Name)
		}
		if j, dup := seen[img.Name]; dup {
			return fmt.Errorf("%w: image %q appears at %d and %d", ErrInvalidManifest, img.Name, j, i)
		}
		seen[img.Name] = i
	}
	return nil
}

// Options converts the [atlas] table into atlas options.
func (m *Manifest) Options() ([]texatlas.Option, error) {
	var opts []texatlas.Option
	if m.Atlas.Canvas != 0 {
		opts = append(opts, texatlas.WithCanvasSize(m.Atlas.Canvas))
	}
	if m.Atlas.Padding != 0 {
		opts = append(opts, texatlas.WithPadding(m.Atlas.Padding))
	}
	h, err := packer.ParseHeuristic(m.Atlas.Heuristic)
	if err != nil {
		return nil, fmt.Errorf("manifest: [atlas] heuristic: %w", err)
	}
	opts = append(opts, texatlas.WithHeuristic(h))
	f, err := texatlas.ParsePixelFormat(m.Atlas.Format)
	if err != nil {
		return nil, fmt.Errorf("manifest: [atlas] format: %w", err)
	}
	opts = append(opts, texatlas.WithFormat(f))
	return opts, nil
}
