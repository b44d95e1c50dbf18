// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texatlas"
)

// halFormat returns the device format used to store pixels of format f and
// the pixmap format the upload buffer must be in.
//
// RGBA8 and R8 map directly. Every other format is converted to RGBA8
// before upload.
func halFormat(f texatlas.PixelFormat) (gputypes.TextureFormat, texatlas.PixelFormat) {
	switch f {
	case texatlas.FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, texatlas.FormatRGBA8
	case texatlas.FormatR8:
		return gputypes.TextureFormatR8Unorm, texatlas.FormatR8
	default:
		return gputypes.TextureFormatRGBA8Unorm, texatlas.FormatRGBA8
	}
}

// uploadData returns the bytes to write for pm in the upload format, and
// the row pitch. BGRA8 swaps the red and blue channels.
func uploadData(pm *texatlas.Pixmap, gf gputypes.TextureFormat) ([]byte, int) {
	_, uf := halFormat(pm.Format())
	if pm.Format() != uf {
		pm = pm.Convert(uf)
	}
	data := pm.Data()
	if gf == gputypes.TextureFormatBGRA8Unorm {
		data = swapRB(data)
	}
	return data, pm.Stride()
}

func swapRB(rgba []byte) []byte {
	out := make([]byte, len(rgba))
	for i := 0; i+3 < len(rgba); i += 4 {
		out[i], out[i+1], out[i+2], out[i+3] = rgba[i+2], rgba[i+1], rgba[i], rgba[i+3]
	}
	return out
}
