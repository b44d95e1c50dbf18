// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texatlas"
	"github.com/gogpu/wgpu/hal"
)

// Factory creates atlas textures on one hal device.
type Factory struct {
	device hal.Device
	queue  hal.Queue

	// surfaceFormat, when BGRA8, makes RGBA8 textures match the swapchain
	// channel order.
	surfaceFormat gputypes.TextureFormat
	created       atomic.Int64
}

// NewFactory returns a factory for device and queue.
func NewFactory(device hal.Device, queue hal.Queue) (*Factory, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	return &Factory{device: device, queue: queue}, nil
}

// NewFactoryFromProvider extracts the hal device and queue from a shared
// gpucontext provider. The provider must also expose HalDevice() and
// HalQueue().
func NewFactoryFromProvider(provider gpucontext.DeviceProvider) (*Factory, error) {
	if provider == nil {
		return nil, ErrNoDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNoDevice)
	}

	f, err := NewFactory(device, queue)
	if err != nil {
		return nil, err
	}
	f.surfaceFormat = provider.SurfaceFormat()
	return f, nil
}

// Create is a texatlas.TextureFactory.
func (f *Factory) Create(width, height int, format texatlas.PixelFormat) (texatlas.Texture, error) {
	if width <= 0 || height <= 0 || width > texatlas.MaxCanvasSize || height > texatlas.MaxCanvasSize {
		return nil, fmt.Errorf("%w: %dx%d", texatlas.ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", texatlas.ErrUnsupportedFormat, format)
	}

	gf, _ := halFormat(format)
	if gf == gputypes.TextureFormatRGBA8Unorm && f.surfaceFormat == gputypes.TextureFormatBGRA8Unorm {
		gf = gputypes.TextureFormatBGRA8Unorm
	}
	n := f.created.Add(1)
	label := fmt.Sprintf("texatlas_%d", n)

	tex, err := newTexture(f.device, f.queue, label, width, height, format, gf)
	if err != nil {
		return nil, err
	}
	texatlas.Logger().Info("gpu: atlas texture created",
		slog.String("label", label),
		slog.Int("width", width),
		slog.Int("height", height),
		slog.String("format", format.String()))
	return tex, nil
}
