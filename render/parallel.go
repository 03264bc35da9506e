package render

import (
	"image"
	"image/draw"
	"runtime"
	"sync"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/tiles"
)

// DefaultTileSize is the edge length of the square tiles Parallel hands out.
const DefaultTileSize = 64

// Parallel renders f on a pool of workers goroutines, NumCPU if workers <= 0.
// Each worker renders whole tiles into its own image; the calling goroutine
// alone copies finished tiles into the frame, so no pixel is written twice
// and no lock is taken. The result equals Sequential(f).
func Parallel(f mandel.Frame, workers int) *image.RGBA {
	return ParallelTiles(f, workers, DefaultTileSize)
}

// ParallelTiles is Parallel with a custom tile edge length, DefaultTileSize
// if tileSize <= 0.
func ParallelTiles(f mandel.Frame, workers, tileSize int) *image.RGBA {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	img := image.NewRGBA(f.Bounds())
	all := tiles.Split(img.Rect, tileSize, tileSize)
	if workers > len(all) {
		workers = len(all)
	}

	todo := make(chan image.Rectangle)
	done := make(chan *image.RGBA, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range todo {
				done <- Tile(f, t)
			}
		}()
	}

	go func() {
		for _, t := range all {
			todo <- t
		}
		close(todo)
		wg.Wait()
		close(done)
	}()

	for tileImg := range done {
		draw.Draw(img, tileImg.Rect, tileImg, tileImg.Rect.Min, draw.Src)
	}
	return img
}
