package texatlas

import (
	"fmt"

	"github.com/gogpu/texatlas/packer"
)

// Canvas limits.
const (
	// DefaultCanvasSize is the default atlas dimension (2048x2048).
	DefaultCanvasSize = 2048

	// MaxCanvasSize is the largest accepted atlas dimension.
	MaxCanvasSize = 16384
)

// Config holds the atlas settings. It is fixed for the lifetime of an atlas.
type Config struct {
	// CanvasSize is the atlas width and height in pixels.
	CanvasSize int

	// Padding is the number of empty pixels kept between packed images.
	Padding int

	// Format is the pixel format of the composed atlas texture.
	Format PixelFormat

	// Heuristic selects the packing algorithm.
	Heuristic packer.Heuristic
}

// DefaultConfig returns a 2048x2048 RGBA8 skyline-packed configuration.
func DefaultConfig() Config {
	return Config{
		CanvasSize: DefaultCanvasSize,
		Format:     FormatRGBA8,
		Heuristic:  packer.Skyline,
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.CanvasSize < 1 {
		return &ConfigError{Field: "CanvasSize", Reason: "must be at least 1"}
	}
	if c.CanvasSize > MaxCanvasSize {
		return &ConfigError{Field: "CanvasSize", Reason: fmt.Sprintf("must be at most %d", MaxCanvasSize)}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.CanvasSize {
		return &ConfigError{Field: "Padding", Reason: "must be less than CanvasSize"}
	}
	if !c.Format.Valid() {
		return &ConfigError{Field: "Format", Reason: "unknown pixel format " + c.Format.String()}
	}
	if c.Heuristic != packer.Skyline && c.Heuristic != packer.Shelf {
		return &ConfigError{Field: "Heuristic", Reason: "unknown heuristic " + c.Heuristic.String()}
	}
	return nil
}

// Option configures a TextureAtlas during creation.
//
// Example:
//
//	atlas, err := texatlas.New(
//	    texatlas.WithCanvasSize(1024),
//	    texatlas.WithPadding(1),
//	)
type Option func(*options)

type options struct {
	config  Config
	factory TextureFactory
	cache   packer.LayoutCache
}

func defaultOptions() options {
	return options{
		config:  DefaultConfig(),
		factory: SoftwareFactory,
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}

// WithCanvasSize sets the atlas width and height.
func WithCanvasSize(size int) Option {
	return func(o *options) {
		o.config.CanvasSize = size
	}
}

// WithPadding sets the gap between packed images.
func WithPadding(px int) Option {
	return func(o *options) {
		o.config.Padding = px
	}
}

// WithFormat sets the pixel format of the atlas texture. Pages in other
// formats are converted during composition.
func WithFormat(f PixelFormat) Option {
	return func(o *options) {
		o.config.Format = f
	}
}

// WithHeuristic selects the packing algorithm.
func WithHeuristic(h packer.Heuristic) Option {
	return func(o *options) {
		o.config.Heuristic = h
	}
}

// WithTextureFactory sets the backend used to create the atlas texture.
// The default is SoftwareFactory.
//
// Example:
//
//	factory, _ := gpu.NewFactoryFromProvider(provider)
//	atlas, err := texatlas.New(texatlas.WithTextureFactory(factory.Create))
func WithTextureFactory(f TextureFactory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithLayoutCache lets the atlas reuse packing results across runs.
func WithLayoutCache(c packer.LayoutCache) Option {
	return func(o *options) {
		o.cache = c
	}
}
