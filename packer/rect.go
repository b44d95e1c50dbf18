package packer

import "fmt"

// Size is a rectangle waiting to be packed. ID is an opaque caller value,
// typically an index into the caller's own slice.
type Size struct {
	ID   int
	W, H int
}

// Area returns W*H.
func (s Size) Area() int {
	return s.W * s.H
}

// Rect is a placed rectangle. X and Y are the top-left corner.
type Rect struct {
	ID   int
	X, Y int
	W, H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects reports whether r and o share any pixel.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Inside reports whether r lies fully within [0,canvas) x [0,canvas).
func (r Rect) Inside(canvas int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= canvas && r.Bottom() <= canvas
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect#%d(%d,%d %dx%d)", r.ID, r.X, r.Y, r.W, r.H)
}
