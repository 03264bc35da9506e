package tiles

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"

	mandel "github.com/SzilvasiPeter/mandelplotter"
)

var (
	// ErrFrameDone is returned by Render once every tile has been merged.
	ErrFrameDone = errors.New("frame already rendered")

	ErrNoTile         = errors.New("no such tile")
	ErrTileUnfinished = errors.New("tile is not finished")
)

// Status is a snapshot of a Scheduler's progress.
type Status struct {
	Width, Height int
	TileSize      int
	Workers       int
	TilesTotal    int
	TilesDone     int
	Finished      float32 // fraction of pixels merged
}

// Scheduler distributes the tiles of one frame across any number of
// renderers, which may join and leave at any time.
//
// Unstarted tiles are handed out first. Once they run out, tiles still in
// process are handed out again, so a slow or dead renderer does not stall
// the frame. Whichever copy arrives first is merged.
type Scheduler struct {
	frame    mandel.Frame
	tileSize int
	img      *image.RGBA

	done     chan struct{}
	doneOnce sync.Once

	m              sync.Mutex
	workers        int
	totalTiles     int
	totalPixels    int
	finishedPixels int
	unstarted      []image.Rectangle
	inProcess      map[image.Rectangle]struct{}
	finished       map[image.Rectangle]struct{}
}

var _ mandel.ImageProvider = (*Scheduler)(nil)

// NewScheduler prepares f for rendering in tileSize × tileSize tiles.
func NewScheduler(f mandel.Frame, tileSize int) (*Scheduler, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("%d: %w", tileSize, mandel.ErrTileSize)
	}

	img := image.NewRGBA(f.Bounds())
	all := Split(img.Rect, tileSize, tileSize)
	return &Scheduler{
		frame:       f,
		tileSize:    tileSize,
		img:         img,
		done:        make(chan struct{}),
		totalTiles:  len(all),
		totalPixels: f.Width * f.Height,
		unstarted:   all,
		inProcess:   make(map[image.Rectangle]struct{}),
		finished:    make(map[image.Rectangle]struct{}, len(all)),
	}, nil
}

// Done is closed once every tile has been merged.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) popTile() (tile image.Rectangle, found bool) {
	s.m.Lock()
	defer s.m.Unlock()

	// Get unstarted tile
	if len(s.unstarted) > 0 {
		tile = s.unstarted[0]
		s.unstarted = s.unstarted[1:]

		// Move popped tile to currently processed tiles
		s.inProcess[tile] = struct{}{}
		return tile, true
	}

	// If there is no unstarted tile, we work again on a started one
	if len(s.inProcess) > 0 {
		for tile = range s.inProcess {
			break
		}
		return tile, true
	}

	return image.Rectangle{}, false
}

// Image implements mandel.ImageProvider. It blocks until the frame is
// complete or ctx is done.
func (s *Scheduler) Image(ctx context.Context) (*image.RGBA, error) {
	select {
	case <-s.done:
		return s.img, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TileImage returns a copy of the finished tile in column x and row y of
// the tile grid, counted from the top left.
func (s *Scheduler) TileImage(x, y int) (*image.RGBA, error) {
	if x < 0 || y < 0 {
		return nil, fmt.Errorf("tile (%d,%d): %w", x, y, ErrNoTile)
	}
	tile := image.Rect(x, y, x+1, y+1).Mul(s.tileSize).Intersect(s.img.Rect)
	if tile.Empty() {
		return nil, fmt.Errorf("tile (%d,%d): %w", x, y, ErrNoTile)
	}

	s.m.Lock()
	defer s.m.Unlock()

	if _, ok := s.finished[tile]; !ok {
		return nil, fmt.Errorf("tile (%d,%d) %s: %w", x, y, tile, ErrTileUnfinished)
	}
	out := image.NewRGBA(tile)
	draw.Draw(out, tile, s.img, tile.Min, draw.Src)
	return out, nil
}

// Status returns the current progress.
func (s *Scheduler) Status() Status {
	s.m.Lock()
	defer s.m.Unlock()
	return Status{
		Width:      s.frame.Width,
		Height:     s.frame.Height,
		TileSize:   s.tileSize,
		Workers:    s.workers,
		TilesTotal: s.totalTiles,
		TilesDone:  len(s.finished),
		Finished:   float32(s.finishedPixels) / float32(s.totalPixels),
	}
}

// tileFinished merges tileImg into the frame. Copies of a tile that was
// already merged are dropped.
func (s *Scheduler) tileFinished(tileImg *image.RGBA) {
	rect := tileImg.Bounds()

	s.m.Lock()
	defer s.m.Unlock()

	if _, found := s.inProcess[rect]; !found {
		return
	}
	delete(s.inProcess, rect)

	draw.Draw(
		s.img,
		rect,     // destination rectangle (global coords)
		tileImg,  // source image
		rect.Min, // source start
		draw.Src,
	)

	s.finished[rect] = struct{}{}
	s.finishedPixels += rect.Dx() * rect.Dy()

	if len(s.unstarted) == 0 && len(s.inProcess) == 0 {
		s.doneOnce.Do(func() { close(s.done) })
	}
}

func (s *Scheduler) addWorker(delta int) {
	s.m.Lock()
	s.workers += delta
	w := s.workers
	s.m.Unlock()

	log.Printf("workers: %d", w)
}

// Render renders unfinished tiles on r until none are left.
// It can be called from multiple goroutines in parallel. A renderer error
// ends the call and leaves the tile to other renderers.
func (s *Scheduler) Render(ctx context.Context, r mandel.Renderer) error {
	s.addWorker(1)
	defer s.addWorker(-1)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tile, found := s.popTile()
		if !found {
			return ErrFrameDone
		}
		tileImg, err := r.RenderTile(ctx, mandel.Job{Frame: s.frame, Tile: tile})
		if err != nil {
			return fmt.Errorf("render of tile %s: %w", tile, err)
		}
		if tileImg.Bounds() != tile {
			return fmt.Errorf("render of tile %s: renderer returned %s", tile, tileImg.Bounds())
		}
		s.tileFinished(tileImg)
		log.Printf("finished: %f", s.Status().Finished)
	}
}
