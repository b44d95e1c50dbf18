package packer

// shelf is a horizontal strip of the canvas.
type shelf struct {
	y      int // top of the shelf
	height int // tallest item placed so far
	x      int // next free column
}

// shelfAllocator places rectangles left to right on shelves, opening a new
// shelf below the last one when no existing shelf has room.
type shelfAllocator struct {
	width, height int
	shelves       []shelf
}

func newShelfAllocator(width, height int) *shelfAllocator {
	return &shelfAllocator{width: width, height: height, shelves: make([]shelf, 0, 16)}
}

func (a *shelfAllocator) allocate(w, h int) (x, y int, ok bool) {
	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+w > a.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow, and only into free space below it.
			if i == len(a.shelves)-1 && s.y+h <= a.height {
				s.height = h
				x, y = s.x, s.y
				s.x += w
				return x, y, true
			}
			continue
		}
		x, y = s.x, s.y
		s.x += w
		return x, y, true
	}

	newY := 0
	if len(a.shelves) > 0 {
		last := a.shelves[len(a.shelves)-1]
		newY = last.y + last.height
	}
	if w > a.width || newY+h > a.height {
		return -1, -1, false
	}
	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: w})
	return 0, newY, true
}
