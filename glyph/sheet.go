package glyph

import (
	"golang.org/x/image/font"

	"github.com/gogpu/texatlas"
)

// Sheet is a texture atlas of glyphs from one face.
type Sheet struct {
	Atlas *texatlas.TextureAtlas

	face   font.Face
	glyphs []Glyph
	index  map[rune]int
}

// NewAtlas rasterizes charset with face and packs the glyphs into a new
// atlas configured by opts.
func NewAtlas(face font.Face, charset string, opts ...texatlas.Option) (*Sheet, error) {
	glyphs, err := Rasterize(face, charset)
	if err != nil {
		return nil, err
	}
	pms := make([]*texatlas.Pixmap, len(glyphs))
	for i, g := range glyphs {
		pms[i] = g.Pixmap
	}
	atlas, err := texatlas.NewFromPixmaps(pms, opts...)
	if err != nil {
		return nil, err
	}

	s := &Sheet{Atlas: atlas, face: face, index: make(map[rune]int, len(glyphs))}
	s.record(glyphs)
	return s, nil
}

func (s *Sheet) record(glyphs []Glyph) {
	for _, g := range glyphs {
		s.index[g.Rune] = len(s.glyphs)
		s.glyphs = append(s.glyphs, g)
	}
}

// Extend adds the runes of charset that are not on the sheet yet, with a
// single repack. Regions obtained earlier become stale.
func (s *Sheet) Extend(charset string) error {
	var missing []rune
	for _, r := range Runes(charset) {
		if _, ok := s.index[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	glyphs, err := Rasterize(s.face, string(missing))
	if err != nil {
		return err
	}
	pms := make([]*texatlas.Pixmap, len(glyphs))
	for i, g := range glyphs {
		pms[i] = g.Pixmap
	}
	if _, err := s.Atlas.AddAll(pms...); err != nil {
		return err
	}
	s.record(glyphs)
	return nil
}

// Len returns the number of glyphs on the sheet.
func (s *Sheet) Len() int {
	return len(s.glyphs)
}

// Glyph returns the metrics of r.
func (s *Sheet) Glyph(r rune) (Glyph, bool) {
	i, ok := s.index[r]
	if !ok {
		return Glyph{}, false
	}
	return s.glyphs[i], true
}

// Region returns the atlas region of r, or the degenerate region when r is
// not on the sheet. The caller must Release it.
func (s *Sheet) Region(r rune) texatlas.TextureRegion {
	i, ok := s.index[r]
	if !ok {
		i = -1
	}
	return s.Atlas.Get(i)
}

// Close releases the atlas.
func (s *Sheet) Close() {
	s.Atlas.Close()
}
