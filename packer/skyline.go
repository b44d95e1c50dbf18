package packer

import "math"

// skylineNode is one horizontal segment of the skyline: the free area
// starts at y and spans [x, x+width).
type skylineNode struct {
	x, y, width int
}

// skylineAllocator implements bottom-left skyline packing.
type skylineAllocator struct {
	width, height int
	nodes         []skylineNode
}

func newSkylineAllocator(width, height int) *skylineAllocator {
	nodes := make([]skylineNode, 1, 16)
	nodes[0] = skylineNode{x: 0, y: 0, width: width}
	return &skylineAllocator{width: width, height: height, nodes: nodes}
}

// fits returns the y at which a w x h rectangle starting at node i would
// rest, or -1 if it does not fit there.
func (a *skylineAllocator) fits(i, w, h int) int {
	x := a.nodes[i].x
	y := a.nodes[i].y
	if x+w > a.width {
		return -1
	}
	spaceLeft := w
	for spaceLeft > 0 {
		if i == len(a.nodes) {
			return -1
		}
		y = max(y, a.nodes[i].y)
		if y+h > a.height {
			return -1
		}
		spaceLeft -= a.nodes[i].width
		i++
	}
	return y
}

func (a *skylineAllocator) allocate(w, h int) (x, y int, ok bool) {
	bestH, bestW := math.MaxInt, math.MaxInt
	bestI := -1
	for i, n := range a.nodes {
		ny := a.fits(i, w, h)
		if ny < 0 {
			continue
		}
		if ny+h < bestH || (ny+h == bestH && n.width < bestW) {
			bestI, bestW, bestH = i, n.width, ny+h
			x, y = n.x, ny
		}
	}
	if bestI < 0 {
		return -1, -1, false
	}
	a.addLevel(bestI, x, y, w, h)
	return x, y, true
}

// addLevel raises the skyline over [x, x+w) to y+h, trimming the segments
// the new one covers and merging neighbours of equal height.
func (a *skylineAllocator) addLevel(idx, x, y, w, h int) {
	a.insert(idx, skylineNode{x: x, y: y + h, width: w})

	for i := idx + 1; i < len(a.nodes); i++ {
		prev := a.nodes[i-1]
		if a.nodes[i].x >= prev.x+prev.width {
			break
		}
		shrink := prev.x + prev.width - a.nodes[i].x
		a.nodes[i].x += shrink
		a.nodes[i].width -= shrink
		if a.nodes[i].width > 0 {
			break
		}
		a.remove(i)
		i--
	}

	for i := 0; i < len(a.nodes)-1; i++ {
		if a.nodes[i].y == a.nodes[i+1].y {
			a.nodes[i].width += a.nodes[i+1].width
			a.remove(i + 1)
			i--
		}
	}
}

func (a *skylineAllocator) insert(idx int, n skylineNode) {
	a.nodes = append(a.nodes, skylineNode{})
	copy(a.nodes[idx+1:], a.nodes[idx:])
	a.nodes[idx] = n
}

func (a *skylineAllocator) remove(idx int) {
	a.nodes = append(a.nodes[:idx], a.nodes[idx+1:]...)
}
