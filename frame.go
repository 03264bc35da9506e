package mandel

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrFrameSize = errors.New("frame dimensions must be positive")
	ErrBudget    = errors.New("iteration budget must not be negative")
	ErrZoom      = errors.New("zoom must be positive")
	ErrTileSize  = errors.New("tile dimensions must be positive")
)

// Frame is everything needed to render one image. It is treated as
// immutable once rendering starts.
type Frame struct {
	Width, Height int
	View          View
	Budget        int
	Palette       Palette
}

// StaticFrame is the 800x800 black and white render written by mandelpng.
func StaticFrame() Frame {
	return Frame{
		Width:   800,
		Height:  800,
		View:    CenterView(complex(-0.5, 0), 2.0),
		Budget:  2000,
		Palette: Monochrome,
	}
}

// ViewerFrame is the initial frame of the interactive viewer.
func ViewerFrame() Frame {
	return Frame{
		Width:   800,
		Height:  600,
		View:    FullSet.View(),
		Budget:  1000,
		Palette: Banded,
	}
}

// Bounds returns the pixel rectangle of the frame.
func (f Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Validate checks the invariants the generator relies on.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%dx%d: %w", f.Width, f.Height, ErrFrameSize)
	}
	if f.Budget < 0 {
		return fmt.Errorf("%d: %w", f.Budget, ErrBudget)
	}
	if !(f.View.Zoom > 0) {
		return fmt.Errorf("%g: %w", f.View.Zoom, ErrZoom)
	}
	return nil
}

// Job is one tile of a frame, handed to a Renderer.
type Job struct {
	Frame Frame
	Tile  image.Rectangle
}
