package mandel

import (
	"context"
	"image"
)

// ImageProvider hands out a fully rendered frame.
type ImageProvider interface {
	Image(ctx context.Context) (*image.RGBA, error)
}

// Renderer renders one tile of a frame. The returned image has bounds equal
// to job.Tile, in global frame coordinates.
type Renderer interface {
	RenderTile(ctx context.Context, job Job) (*image.RGBA, error)
}
