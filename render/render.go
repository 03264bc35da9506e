// Package render computes Mandelbrot frames on the local CPU, either one tile
// at a time for a scheduler or a whole frame sequentially or in parallel.
package render

import (
	"context"
	"image"

	mandel "github.com/SzilvasiPeter/mandelplotter"
)

// TileRenderer renders tiles on the local CPU.
type TileRenderer struct {
	// OnTileRender, if set, is called before each tile is rendered.
	OnTileRender func(tile image.Rectangle)
}

var _ mandel.Renderer = TileRenderer{}

// RenderTile implements mandel.Renderer. It never fails.
func (tr TileRenderer) RenderTile(_ context.Context, job mandel.Job) (*image.RGBA, error) {
	if tr.OnTileRender != nil {
		tr.OnTileRender(job.Tile)
	}
	return Tile(job.Frame, job.Tile), nil
}

// Tile renders the part of f covered by tile. The image has global frame
// coordinates (tile.Min .. tile.Max).
func Tile(f mandel.Frame, tile image.Rectangle) *image.RGBA {
	img := image.NewRGBA(tile)
	fill(img, f, tile)
	return img
}

// fill writes every pixel of r into img.
func fill(img *image.RGBA, f mandel.Frame, r image.Rectangle) {
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			c := f.View.Map(px, py, f.Width, f.Height)
			img.SetRGBA(px, py, f.Palette.Color(mandel.Escape(c, f.Budget)))
		}
	}
}

// Sequential renders f row by row on the calling goroutine.
func Sequential(f mandel.Frame) *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	fill(img, f, img.Rect)
	return img
}
