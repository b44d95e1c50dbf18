package packer

import (
	"errors"
	"fmt"
)

// Sentinel errors for the packer package.
var (
	// ErrCapacityExceeded is returned when the sizes do not fit the canvas.
	ErrCapacityExceeded = errors.New("packer: capacity exceeded")

	// ErrInvalidSize is returned for rectangles with a non-positive side.
	ErrInvalidSize = errors.New("packer: rectangle size must be positive")

	// ErrInvalidCanvas is returned for a non-positive canvas size.
	ErrInvalidCanvas = errors.New("packer: canvas size must be positive")
)

// CapacityError describes a failed Pack call.
type CapacityError struct {
	// Canvas is the side length of the square canvas.
	Canvas int

	// Count is the number of rectangles that were submitted.
	Count int

	// TotalArea is the summed area of all submitted rectangles.
	TotalArea int

	// Largest is the submitted rectangle with the greatest area.
	Largest Size

	// Unplaced lists the rectangles that found no space, in packing order.
	// It is empty when TotalArea alone exceeds the canvas area.
	Unplaced []Size
}

func (e *CapacityError) Error() string {
	if len(e.Unplaced) == 0 {
		return fmt.Sprintf("packer: capacity exceeded: total area %d of %d rectangles exceeds "+
			"the %dx%d canvas area %d (largest %dx%d)",
			e.TotalArea, e.Count, e.Canvas, e.Canvas, e.Canvas*e.Canvas, e.Largest.W, e.Largest.H)
	}
	return fmt.Sprintf("packer: capacity exceeded: %d of %d rectangles do not fit a %dx%d canvas "+
		"(total area %d, canvas area %d, largest %dx%d)",
		len(e.Unplaced), e.Count, e.Canvas, e.Canvas,
		e.TotalArea, e.Canvas*e.Canvas, e.Largest.W, e.Largest.H)
}

// Is makes errors.Is(err, ErrCapacityExceeded) report true.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
