package texatlas

import (
	"fmt"
	"strings"
)

// Components is the channel layout of a pixel.
type Components uint8

// Channel layouts.
const (
	CompR Components = iota + 1
	CompRG
	CompRGB
	CompRGBA
)

// DataType is the encoding of a single channel.
type DataType uint8

// Channel encodings.
const (
	Uint8 DataType = iota
	Int8
	Uint32
	Int32
	Float32
)

// PixelFormat describes the layout of a Pixmap's pixel buffer.
type PixelFormat struct {
	Components Components
	DataType   DataType
}

// Common pixel formats.
var (
	// FormatRGBA8 is four unsigned byte channels. It is the default.
	FormatRGBA8 = PixelFormat{Components: CompRGBA, DataType: Uint8}

	// FormatRGBA32F is four float32 channels.
	FormatRGBA32F = PixelFormat{Components: CompRGBA, DataType: Float32}

	// FormatRGB8 is three unsigned byte channels.
	FormatRGB8 = PixelFormat{Components: CompRGB, DataType: Uint8}

	// FormatR8 is a single unsigned byte channel.
	FormatR8 = PixelFormat{Components: CompR, DataType: Uint8}
)

// ComponentCount returns the number of channels per pixel, or 0 for an
// unknown layout.
func (f PixelFormat) ComponentCount() int {
	switch f.Components {
	case CompR:
		return 1
	case CompRG:
		return 2
	case CompRGB:
		return 3
	case CompRGBA:
		return 4
	}
	return 0
}

// TypeSize returns the size of one channel in bytes.
func (f PixelFormat) TypeSize() int {
	switch f.DataType {
	case Uint8, Int8:
		return 1
	case Uint32, Int32, Float32:
		return 4
	}
	return 0
}

// PixelSize returns the size of one pixel in bytes.
func (f PixelFormat) PixelSize() int {
	return f.ComponentCount() * f.TypeSize()
}

// Valid reports whether f names a known layout and encoding.
func (f PixelFormat) Valid() bool {
	return f.PixelSize() > 0
}

// Is8Bit reports whether each channel is a single byte.
func (f PixelFormat) Is8Bit() bool {
	return f.DataType == Uint8 || f.DataType == Int8
}

// String returns a short name such as "RGBA8" or "RG32F".
func (f PixelFormat) String() string {
	var layout string
	switch f.Components {
	case CompR:
		layout = "R"
	case CompRG:
		layout = "RG"
	case CompRGB:
		layout = "RGB"
	case CompRGBA:
		layout = "RGBA"
	default:
		return fmt.Sprintf("Unknown(%d,%d)", f.Components, f.DataType)
	}

	switch f.DataType {
	case Uint8:
		return layout + "8"
	case Int8:
		return layout + "8I"
	case Uint32:
		return layout + "32UI"
	case Int32:
		return layout + "32I"
	case Float32:
		return layout + "32F"
	}
	return fmt.Sprintf("Unknown(%d,%d)", f.Components, f.DataType)
}

// ParsePixelFormat parses a name produced by PixelFormat.String, ignoring
// case. The empty string yields FormatRGBA8.
func ParsePixelFormat(s string) (PixelFormat, error) {
	if s == "" {
		return FormatRGBA8, nil
	}
	for c := CompR; c <= CompRGBA; c++ {
		for t := Uint8; t <= Float32; t++ {
			f := PixelFormat{Components: c, DataType: t}
			if strings.EqualFold(f.String(), s) {
				return f, nil
			}
		}
	}
	return PixelFormat{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}
