package texatlas

import (
	"image/color"
	"math"
)

// RGBA is a straight-alpha color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts c to a color.NRGBA.
func (c RGBA) Color() color.Color {
	r, g, b, a := c.bytes()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// bytes quantizes c to 8 bits per channel.
func (c RGBA) bytes() (r, g, b, a uint8) {
	return unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)
}

// FromColor converts a standard color.Color to straight-alpha RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

// RGB creates an opaque color.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA" with an optional leading
// '#'. Unparseable input yields opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var v [4]uint32
	v[3] = 255
	switch len(hex) {
	case 3, 4:
		for i := range hex {
			v[i] = hexDigits(hex[i:i+1]) * 17
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			v[i/2] = hexDigits(hex[i : i+2])
		}
	default:
		return Black
	}

	return RGBA{
		R: float64(v[0]) / 255,
		G: float64(v[1]) / 255,
		B: float64(v[2]) / 255,
		A: float64(v[3]) / 255,
	}
}

func hexDigits(s string) uint32 {
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		n *= 16
		switch {
		case '0' <= c && c <= '9':
			n += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			n += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			n += uint32(c - 'A' + 10)
		default:
			return 0
		}
	}
	return n
}

// ApproxEqual reports whether every channel of c and o differs by at most tol.
func (c RGBA) ApproxEqual(o RGBA, tol float64) bool {
	return math.Abs(c.R-o.R) <= tol &&
		math.Abs(c.G-o.G) <= tol &&
		math.Abs(c.B-o.B) <= tol &&
		math.Abs(c.A-o.A) <= tol
}

func unorm8(x float64) uint8 {
	x = x*255 + 0.5
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Magenta     = RGB(1, 0, 1)
	Transparent = RGBA{}
)
