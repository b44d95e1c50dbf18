package packer

import "fmt"

// Result is the outcome of a successful Pack.
type Result struct {
	// Rects holds one placement per added rectangle, in insertion order.
	Rects []Rect

	// Canvas is the side length of the square canvas.
	Canvas int

	// Padding is the gap that was kept between rectangles.
	Padding int

	// Heuristic is the algorithm that produced the placements.
	Heuristic Heuristic

	// UsedArea is the summed area of all rectangles, excluding padding.
	UsedArea int

	// Cached is true when the placements came from a LayoutCache.
	Cached bool

	// CacheErr is set when the placements could not be written to the
	// LayoutCache. The result itself is still valid.
	CacheErr error
}

// Len returns the number of placements.
func (r *Result) Len() int {
	return len(r.Rects)
}

// Utilization returns the fraction of the canvas covered by rectangles.
func (r *Result) Utilization() float64 {
	if r.Canvas <= 0 {
		return 0
	}
	return float64(r.UsedArea) / float64(r.Canvas*r.Canvas)
}

// Validate checks that every placement lies inside the canvas and that no
// two placements overlap.
func (r *Result) Validate() error {
	for i, a := range r.Rects {
		if a.W <= 0 || a.H <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidSize, a)
		}
		if !a.Inside(r.Canvas) {
			return fmt.Errorf("packer: %v outside %dx%d canvas", a, r.Canvas, r.Canvas)
		}
		for _, b := range r.Rects[i+1:] {
			if a.Intersects(b) {
				return fmt.Errorf("packer: %v overlaps %v", a, b)
			}
		}
	}
	return nil
}
