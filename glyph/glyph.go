// Package glyph packs rasterized font glyphs into a texture atlas.
//
// Glyphs are white with the coverage in alpha, so a renderer tints them by
// multiplying with the text color:
//
//	face, _ := glyph.DefaultFace(24)
//	sheet, err := glyph.NewAtlas(face, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
//	if err != nil {
//		return err
//	}
//	defer sheet.Close()
//	region := sheet.Region('Q')
//	defer region.Release()
package glyph

import (
	"errors"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/texatlas"
)

// ErrNoGlyphs is returned when none of the requested runes can be rendered.
var ErrNoGlyphs = errors.New("glyph: face has no glyphs for charset")

// Glyph is one rasterized rune.
type Glyph struct {
	Rune rune

	// Pixmap is RGBA8 white with coverage in alpha. Glyphs without ink, such
	// as space, get a 1x1 transparent pixmap.
	Pixmap *texatlas.Pixmap

	// Bearing is the offset from the pen position on the baseline to the
	// top-left corner of Pixmap.
	Bearing image.Point

	// Advance is the horizontal pen advance in pixels.
	Advance float64
}

// Runes returns the distinct runes of charset after NFC normalization, in
// first-seen order.
func Runes(charset string) []rune {
	s := norm.NFC.String(charset)
	seen := make(map[rune]bool, len(s))
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Rasterize renders every distinct rune of charset with face. Runes the face
// cannot render are skipped and logged.
func Rasterize(face font.Face, charset string) ([]Glyph, error) {
	runes := Runes(charset)
	glyphs := make([]Glyph, 0, len(runes))
	for _, r := range runes {
		g, ok := rasterize(face, r)
		if !ok {
			texatlas.Logger().Warn("glyph: rune not in face", slog.String("rune", string(r)))
			continue
		}
		glyphs = append(glyphs, g)
	}
	if len(glyphs) == 0 && len(runes) > 0 {
		return nil, ErrNoGlyphs
	}
	return glyphs, nil
}

func rasterize(face font.Face, r rune) (Glyph, bool) {
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return Glyph{}, false
	}
	g := Glyph{Rune: r, Bearing: dr.Min, Advance: fixedToFloat64(advance)}
	if dr.Empty() {
		g.Pixmap = texatlas.NewPixmap(1, 1)
		return g, true
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	draw.DrawMask(dst, dst.Bounds(), image.White, image.Point{}, mask, maskp, draw.Src)
	g.Pixmap = texatlas.FromImage(dst)
	return g, true
}

func fixedToFloat64(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// DefaultFace returns the Go Regular font at size pixels per em.
func DefaultFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
