package texatlas

// page is one registered source image. index is its insertion position and
// doubles as the packer ID, so placements map back to pages without
// pointers.
type page struct {
	index  int
	pixmap *Pixmap
}

// newPage copies pm into the atlas format.
func newPage(index int, pm *Pixmap, format PixelFormat) page {
	return page{index: index, pixmap: pm.Convert(format)}
}

func (p page) width() int  { return p.pixmap.Width() }
func (p page) height() int { return p.pixmap.Height() }
