// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texatlas"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoDevice is returned when a factory has no usable device or queue.
var ErrNoDevice = errors.New("gpu: no hal device")

// Texture is a texatlas.Texture stored on a hal device.
//
// Texture is safe for concurrent use.
type Texture struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	texture hal.Texture
	view    hal.TextureView

	width     int
	height    int
	format    texatlas.PixelFormat
	halFormat gputypes.TextureFormat
	label     string

	// shadow mirrors the last uploaded contents in format.
	shadow    *texatlas.Pixmap
	destroyed bool
}

func newTexture(device hal.Device, queue hal.Queue, label string, width, height int,
	format texatlas.PixelFormat, gf gputypes.TextureFormat) (*Texture, error) {
	size := hal.Extent3D{
		Width:              uint32(width),  //nolint:gosec // validated positive by the factory
		Height:             uint32(height), //nolint:gosec // validated positive by the factory
		DepthOrArrayLayers: 1,
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gf,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %q: %w", label, err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gf,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create texture view %q: %w", label, err)
	}

	return &Texture{
		device:    device,
		queue:     queue,
		texture:   tex,
		view:      view,
		width:     width,
		height:    height,
		format:    format,
		halFormat: gf,
		label:     label,
		shadow:    texatlas.NewPixmapFormat(width, height, format),
	}, nil
}

func (t *Texture) Width() int                   { return t.width }
func (t *Texture) Height() int                  { return t.height }
func (t *Texture) Format() texatlas.PixelFormat { return t.format }

// HalFormat returns the device-side texture format.
func (t *Texture) HalFormat() gputypes.TextureFormat { return t.halFormat }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// View returns the texture view for bind groups, or nil after Destroy.
func (t *Texture) View() hal.TextureView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// UpdatePixmap uploads pm to the device with queue.WriteTexture.
func (t *Texture) UpdatePixmap(pm *texatlas.Pixmap) error {
	if pm == nil {
		return texatlas.ErrNilPixmap
	}
	if pm.Width() != t.width || pm.Height() != t.height {
		return fmt.Errorf("%w: texture is %dx%d, pixmap is %dx%d",
			texatlas.ErrInvalidDimensions, t.width, t.height, pm.Width(), pm.Height())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return texatlas.ErrTextureDestroyed
	}

	shadow := pm.Convert(t.format)
	data, stride := uploadData(shadow, t.halFormat)
	t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(stride),   //nolint:gosec // bounded by MaxCanvasSize
			RowsPerImage: uint32(t.height), //nolint:gosec // bounded by MaxCanvasSize
		},
		&hal.Extent3D{Width: uint32(t.width), Height: uint32(t.height), DepthOrArrayLayers: 1}, //nolint:gosec // bounded
	)
	t.shadow = shadow

	texatlas.Logger().Debug("gpu: texture uploaded",
		slog.String("label", t.label),
		slog.Int("bytes", len(data)))
	return nil
}

// Pixmap returns a copy of the shadow contents.
func (t *Texture) Pixmap() (*texatlas.Pixmap, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return nil, texatlas.ErrTextureDestroyed
	}
	return t.shadow.Clone(), nil
}

// Destroy frees the device texture and view.
func (t *Texture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
	t.shadow = nil
}
