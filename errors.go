package texatlas

import (
	"errors"

	"github.com/gogpu/texatlas/packer"
)

// Sentinel errors for the texatlas package.
var (
	// ErrCapacityExceeded is returned when the registered images cannot be
	// packed into the configured canvas. The concrete error is a
	// *packer.CapacityError.
	ErrCapacityExceeded = packer.ErrCapacityExceeded

	// ErrInvalidDimensions is returned for negative or out-of-bounds sizes.
	ErrInvalidDimensions = errors.New("texatlas: invalid dimensions")

	// ErrUnsupportedFormat is returned when an operation does not support a
	// pixel format.
	ErrUnsupportedFormat = errors.New("texatlas: unsupported pixel format")

	// ErrDataSize is returned when a pixel buffer length does not match its
	// declared size and format.
	ErrDataSize = errors.New("texatlas: pixel data size mismatch")

	// ErrFormatMismatch is returned when two pixmaps must share a format.
	ErrFormatMismatch = errors.New("texatlas: pixel format mismatch")

	// ErrNilPixmap is returned when a pixmap argument is nil.
	ErrNilPixmap = errors.New("texatlas: pixmap is nil")

	// ErrNilTexture is returned when a texture argument is nil.
	ErrNilTexture = errors.New("texatlas: texture is nil")

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("texatlas: texture has been destroyed")

	// ErrAtlasClosed is returned when operating on a closed atlas.
	ErrAtlasClosed = errors.New("texatlas: atlas is closed")
)

// ConfigError reports an invalid atlas option.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "texatlas: invalid config." + e.Field + ": " + e.Reason
}
