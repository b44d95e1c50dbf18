package packer

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Heuristic selects the placement algorithm.
type Heuristic uint8

const (
	// Skyline is bottom-left skyline packing. It is the default.
	Skyline Heuristic = iota

	// Shelf is left-to-right shelf packing.
	Shelf
)

// String returns the heuristic name.
func (h Heuristic) String() string {
	switch h {
	case Skyline:
		return "skyline"
	case Shelf:
		return "shelf"
	default:
		return fmt.Sprintf("Heuristic(%d)", h)
	}
}

// ParseHeuristic parses a heuristic name. The empty string selects Skyline.
func ParseHeuristic(s string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skyline":
		return Skyline, nil
	case "shelf":
		return Shelf, nil
	}
	return 0, fmt.Errorf("packer: unknown heuristic %q", s)
}

type allocator interface {
	allocate(w, h int) (x, y int, ok bool)
}

func (h Heuristic) newAllocator(width, height int) allocator {
	if h == Shelf {
		return newShelfAllocator(width, height)
	}
	return newSkylineAllocator(width, height)
}

// LayoutCache stores packing results keyed by Packer.Key. A cached layout is
// used only if it passes validation against the current input.
type LayoutCache interface {
	Load(key [32]byte) ([]Rect, bool)
	Store(key [32]byte, rects []Rect) error
}

// Option configures a Packer.
type Option func(*Packer)

// WithPadding reserves pad empty pixels between neighbouring rectangles.
// Rectangles may still touch the canvas edge. Negative values mean zero.
func WithPadding(pad int) Option {
	return func(p *Packer) {
		p.padding = max(pad, 0)
	}
}

// WithHeuristic selects the placement algorithm.
func WithHeuristic(h Heuristic) Option {
	return func(p *Packer) {
		p.heuristic = h
	}
}

// WithCache makes Pack consult and fill c.
func WithCache(c LayoutCache) Option {
	return func(p *Packer) {
		p.cache = c
	}
}

// Packer collects rectangle sizes and packs them into a square canvas.
// A Packer is not safe for concurrent use.
type Packer struct {
	canvas    int
	padding   int
	heuristic Heuristic
	cache     LayoutCache
	sizes     []Size
}

// New creates a packer for a canvas x canvas area.
func New(canvas int, opts ...Option) *Packer {
	p := &Packer{canvas: canvas}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add registers a rectangle. Nothing is placed until Pack.
func (p *Packer) Add(w, h, id int) {
	p.sizes = append(p.sizes, Size{ID: id, W: w, H: h})
}

// Len returns the number of registered rectangles.
func (p *Packer) Len() int {
	return len(p.sizes)
}

// Reset removes all registered rectangles, keeping the configuration.
func (p *Packer) Reset() {
	clear(p.sizes)
	p.sizes = p.sizes[:0]
}

// Key returns a digest of everything that determines the packing result:
// canvas, padding, heuristic and the registered sizes in order.
func (p *Packer) Key() [32]byte {
	buf := make([]byte, 0, 32+len(p.sizes)*24)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.canvas))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.padding))
	buf = append(buf, byte(p.heuristic))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.sizes)))
	for _, s := range p.sizes {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(s.ID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(s.W))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(s.H))
	}
	return blake2b.Sum256(buf)
}

// Pack computes placements for every registered rectangle from scratch.
//
// On success Result.Rects[i] is the placement of the i-th added rectangle.
// If any rectangle does not fit, Pack returns a *CapacityError and no
// result; the registered sizes are kept.
func (p *Packer) Pack() (*Result, error) {
	if p.canvas <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCanvas, p.canvas)
	}
	res := &Result{Canvas: p.canvas, Padding: p.padding, Heuristic: p.heuristic}
	if len(p.sizes) == 0 {
		return res, nil
	}

	capErr := &CapacityError{Canvas: p.canvas, Count: len(p.sizes)}
	for _, s := range p.sizes {
		if s.W <= 0 || s.H <= 0 {
			return nil, fmt.Errorf("%w: id %d is %dx%d", ErrInvalidSize, s.ID, s.W, s.H)
		}
		capErr.TotalArea += s.Area()
		if s.Area() > capErr.Largest.Area() {
			capErr.Largest = s
		}
	}

	var key [32]byte
	if p.cache != nil {
		key = p.Key()
		if rects, ok := p.cache.Load(key); ok && p.matches(rects) {
			res.Rects = slices.Clone(rects)
			res.UsedArea = capErr.TotalArea
			res.Cached = true
			return res, nil
		}
	}

	// Unplaced stays empty: the area alone rules the set out, and which
	// rectangles would have been left over depends on the heuristic.
	if capErr.TotalArea > p.canvas*p.canvas {
		return nil, capErr
	}

	// Inflate every rectangle by the padding on its right and bottom edge and
	// grow the canvas by the same amount, so padding separates neighbours but
	// never pushes a rectangle past the real canvas edge.
	span := p.canvas + p.padding
	alloc := p.heuristic.newAllocator(span, span)

	type placed struct {
		seq  int
		rect Rect
	}
	out := make([]placed, 0, len(p.sizes))
	for _, i := range p.packingOrder() {
		s := p.sizes[i]
		x, y, ok := alloc.allocate(s.W+p.padding, s.H+p.padding)
		if !ok {
			capErr.Unplaced = append(capErr.Unplaced, s)
			continue
		}
		out = append(out, placed{seq: i, rect: Rect{ID: s.ID, X: x, Y: y, W: s.W, H: s.H}})
	}
	if len(capErr.Unplaced) > 0 {
		return nil, capErr
	}

	// The allocators see rectangles in packing order; restore insertion
	// order so that Rects[i] matches the i-th Add call.
	slices.SortFunc(out, func(a, b placed) int { return cmp.Compare(a.seq, b.seq) })
	res.Rects = make([]Rect, len(out))
	for i, pl := range out {
		res.Rects[i] = pl.rect
	}
	res.UsedArea = capErr.TotalArea

	if p.cache != nil {
		if err := p.cache.Store(key, res.Rects); err != nil {
			res.CacheErr = fmt.Errorf("packer: store layout: %w", err)
		}
	}
	return res, nil
}

// packingOrder returns insertion indices sorted tallest first, then widest,
// with insertion order breaking ties.
func (p *Packer) packingOrder() []int {
	order := make([]int, len(p.sizes))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		sa, sb := p.sizes[a], p.sizes[b]
		if c := cmp.Compare(sb.H, sa.H); c != 0 {
			return c
		}
		return cmp.Compare(sb.W, sa.W)
	})
	return order
}

// matches reports whether rects is a valid placement of the registered
// sizes on this canvas.
func (p *Packer) matches(rects []Rect) bool {
	if len(rects) != len(p.sizes) {
		return false
	}
	for i, r := range rects {
		s := p.sizes[i]
		if r.ID != s.ID || r.W != s.W || r.H != s.H {
			return false
		}
	}
	res := Result{Rects: rects, Canvas: p.canvas}
	return res.Validate() == nil
}
