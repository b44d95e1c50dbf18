package texatlas

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/texatlas/packer"
)

// TextureAtlas combines many images into one fixed-size texture so a
// renderer can draw all of them with a single texture binding.
//
// Images are registered in order and addressed by that order: Get(i) always
// refers to the i-th image added. Every successful Update repacks all images
// from scratch, composes them into one pixel buffer and uploads it to the
// atlas texture in place.
//
// TextureAtlas is not safe for concurrent use; callers must serialize Add,
// Update and Get.
type TextureAtlas struct {
	config Config

	texture *SharedTexture
	pages   []page
	packer  *packer.Packer
	result  *packer.Result

	// initialized is set once construction finished; later Adds repack
	// immediately.
	initialized bool
	closed      bool

	// gen counts successful updates. Regions keep a pointer to it to detect
	// that they were issued against an older layout.
	gen atomic.Uint64
}

// New creates an empty atlas and allocates its texture.
func New(opts ...Option) (*TextureAtlas, error) {
	return NewFromPixmaps(nil, opts...)
}

// NewFromPixmaps creates an atlas holding copies of pms, packed and composed
// in one pass. Nil entries are skipped.
func NewFromPixmaps(pms []*Pixmap, opts ...Option) (*TextureAtlas, error) {
	a, err := newAtlas(opts)
	if err != nil {
		return nil, err
	}
	for _, pm := range pms {
		if pm != nil {
			a.pages = append(a.pages, newPage(len(a.pages), pm, a.config.Format))
		}
	}
	if err := a.Update(); err != nil {
		a.texture.Release()
		return nil, err
	}
	a.initialized = true
	return a, nil
}

// NewFromTextures creates an atlas from the current contents of texs.
// The textures are only read; the caller keeps its references. Nil entries
// are skipped.
func NewFromTextures(texs []*SharedTexture, opts ...Option) (*TextureAtlas, error) {
	pms := make([]*Pixmap, 0, len(texs))
	for i, t := range texs {
		if t == nil {
			continue
		}
		pm, err := t.Texture().Pixmap()
		if err != nil {
			return nil, fmt.Errorf("texatlas: read texture %d: %w", i, err)
		}
		pms = append(pms, pm)
	}
	return NewFromPixmaps(pms, opts...)
}

func newAtlas(opts []Option) (*TextureAtlas, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	size := o.config.CanvasSize
	tex, err := o.factory(size, size, o.config.Format)
	if err != nil {
		return nil, fmt.Errorf("texatlas: create %dx%d atlas texture: %w", size, size, err)
	}

	popts := []packer.Option{
		packer.WithPadding(o.config.Padding),
		packer.WithHeuristic(o.config.Heuristic),
	}
	if o.cache != nil {
		popts = append(popts, packer.WithCache(o.cache))
	}
	return &TextureAtlas{
		config:  o.config,
		texture: NewSharedTexture(tex),
		packer:  packer.New(size, popts...),
	}, nil
}

// Add registers a copy of pm and returns its index. Once the atlas is
// constructed every Add repacks and re-uploads the whole atlas; prefer
// NewFromPixmaps or AddAll for many images.
//
// If the repack fails the image is not registered and the atlas keeps its
// previous contents.
func (a *TextureAtlas) Add(pm *Pixmap) (int, error) {
	if pm == nil {
		return -1, ErrNilPixmap
	}
	idx, err := a.AddAll(pm)
	if err != nil {
		return -1, err
	}
	return idx, nil
}

// AddTexture registers the contents of tex and releases the caller's
// reference to it, also when an error is returned.
func (a *TextureAtlas) AddTexture(tex *SharedTexture) (int, error) {
	if tex == nil {
		return -1, ErrNilTexture
	}
	defer tex.Release()

	pm, err := tex.Texture().Pixmap()
	if err != nil {
		return -1, fmt.Errorf("texatlas: read texture: %w", err)
	}
	return a.Add(pm)
}

// AddAll registers copies of pms with a single repack and returns the index
// of the first one. Nil entries are skipped. On failure none of them are
// registered.
func (a *TextureAtlas) AddAll(pms ...*Pixmap) (int, error) {
	if a.closed {
		return -1, ErrAtlasClosed
	}
	first := len(a.pages)
	for _, pm := range pms {
		if pm != nil {
			a.pages = append(a.pages, newPage(len(a.pages), pm, a.config.Format))
		}
	}
	if !a.initialized || len(a.pages) == first {
		return first, nil
	}
	if err := a.Update(); err != nil {
		clear(a.pages[first:])
		a.pages = a.pages[:first]
		return -1, err
	}
	return first, nil
}

// Update repacks every registered image, composes them into a fresh
// zeroed buffer and uploads it to the atlas texture.
//
// A failed update leaves the previous layout and texture contents in place.
func (a *TextureAtlas) Update() error {
	if a.closed {
		return ErrAtlasClosed
	}
	log := Logger()

	p := a.packer
	p.Reset()
	for _, pg := range a.pages {
		p.Add(pg.width(), pg.height(), pg.index)
	}

	res, err := p.Pack()
	if err != nil {
		a.logPackFailure(err)
		return fmt.Errorf("texatlas: update: %w", err)
	}
	if res.CacheErr != nil {
		log.Warn("texatlas: layout not cached", slog.String("error", res.CacheErr.Error()))
	}
	log.Debug("texatlas: packed",
		slog.Int("pages", res.Len()),
		slog.String("heuristic", res.Heuristic.String()),
		slog.Float64("utilization", res.Utilization()),
		slog.Bool("cached", res.Cached))

	canvas := NewPixmapFormat(a.config.CanvasSize, a.config.CanvasSize, a.config.Format)
	for _, r := range res.Rects {
		if err := canvas.Blit(a.pages[r.ID].pixmap, r.X, r.Y); err != nil {
			return fmt.Errorf("texatlas: compose page %d: %w", r.ID, err)
		}
	}

	if err := a.texture.Texture().UpdatePixmap(canvas); err != nil {
		return fmt.Errorf("texatlas: upload atlas: %w", err)
	}

	a.result = res
	version := a.gen.Add(1)
	log.Info("texatlas: atlas composed",
		slog.Int("pages", len(a.pages)),
		slog.Int("canvas", a.config.CanvasSize),
		slog.Uint64("version", version))
	return nil
}

func (a *TextureAtlas) logPackFailure(err error) {
	var ce *packer.CapacityError
	if !errors.As(err, &ce) {
		Logger().Error("texatlas: packing failed", slog.String("error", err.Error()))
		return
	}
	Logger().Error("texatlas: images do not fit the atlas canvas",
		slog.Int("images", ce.Count),
		slog.Int("unplaced", len(ce.Unplaced)),
		slog.Int("total_area", ce.TotalArea),
		slog.Int("canvas", ce.Canvas),
		slog.Int("canvas_area", ce.Canvas*ce.Canvas),
		slog.String("largest", fmt.Sprintf("%dx%d", ce.Largest.W, ce.Largest.H)))
}

// Len returns the number of registered images.
func (a *TextureAtlas) Len() int {
	return len(a.pages)
}

// Get returns the region covering the whole image at index.
// An out-of-range index yields a degenerate region with no texture.
func (a *TextureAtlas) Get(index int) TextureRegion {
	return a.GetRect(index, 0, 0, 1, 1)
}

// GetUV returns the part of the image at index between uv0 and uv1, given
// in [0,1] coordinates local to that image.
func (a *TextureAtlas) GetUV(index int, uv0, uv1 Vec2) TextureRegion {
	return a.GetRect(index, uv0.X, uv0.Y, uv1.X, uv1.Y)
}

// GetRect is GetUV with the corners passed as scalars.
func (a *TextureAtlas) GetRect(index int, u0, v0, u1, v1 float32) TextureRegion {
	if a.closed {
		Logger().Warn("texatlas: region requested from closed atlas", slog.Int("index", index))
		return degenerateRegion()
	}
	r, ok := a.Placement(index)
	if !ok {
		Logger().Warn("texatlas: region index out of range",
			slog.Int("index", index), slog.Int("size", a.Len()))
		return degenerateRegion()
	}

	size := float32(a.config.CanvasSize)
	x, y := float32(r.X), float32(r.Y)
	w, h := float32(r.W), float32(r.H)
	region := NewTextureRegion(a.texture,
		(x+w*u0)/size, (y+h*v0)/size,
		(x+w*u1)/size, (y+h*v1)/size)
	region.version = a.gen.Load()
	region.gen = &a.gen
	return region
}

// Placement returns the pixel rectangle of the image at index.
func (a *TextureAtlas) Placement(index int) (packer.Rect, bool) {
	if a.closed || index < 0 || index >= len(a.pages) || a.result == nil || index >= a.result.Len() {
		return packer.Rect{}, false
	}
	return a.result.Rects[index], true
}

// Pixmap returns a copy of the registered image at index, in the atlas
// format.
func (a *TextureAtlas) Pixmap(index int) (*Pixmap, bool) {
	if index < 0 || index >= len(a.pages) {
		return nil, false
	}
	return a.pages[index].pixmap.Clone(), true
}

// Texture returns the atlas texture with an added reference. The caller
// must Release it.
func (a *TextureAtlas) Texture() *SharedTexture {
	if a.closed {
		return nil
	}
	return a.texture.AddRef()
}

// Config returns the atlas configuration.
func (a *TextureAtlas) Config() Config {
	return a.config
}

// Version returns the number of successful updates. Regions issued under an
// older version may point at moved images.
func (a *TextureAtlas) Version() uint64 {
	return a.gen.Load()
}

// Utilization returns the fraction of the canvas covered by images.
func (a *TextureAtlas) Utilization() float64 {
	if a.result == nil {
		return 0
	}
	return a.result.Utilization()
}

// Close drops the atlas's texture reference and its pages. Regions issued
// earlier keep the texture alive until they are released.
func (a *TextureAtlas) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.texture.Release()
	a.pages = nil
	a.result = nil
}
