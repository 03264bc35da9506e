package main

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/navigate"
	"github.com/SzilvasiPeter/mandelplotter/render"
)

// tps is the update rate; input is polled and frames regenerated at most
// this often.
const tps = 60

var keyEvents = []struct {
	key   ebiten.Key
	event navigate.Event
}{
	{ebiten.KeyEscape, navigate.Quit},
	{ebiten.KeyQ, navigate.Quit},
	{ebiten.KeyEqual, navigate.ZoomIn},
	{ebiten.KeyKPAdd, navigate.ZoomIn},
	{ebiten.KeyI, navigate.ZoomIn},
	{ebiten.KeyMinus, navigate.ZoomOut},
	{ebiten.KeyKPSubtract, navigate.ZoomOut},
	{ebiten.KeyO, navigate.ZoomOut},
	{ebiten.KeyArrowLeft, navigate.PanLeft},
	{ebiten.KeyA, navigate.PanLeft},
	{ebiten.KeyArrowRight, navigate.PanRight},
	{ebiten.KeyD, navigate.PanRight},
	{ebiten.KeyArrowUp, navigate.PanUp},
	{ebiten.KeyW, navigate.PanUp},
	{ebiten.KeyArrowDown, navigate.PanDown},
	{ebiten.KeyS, navigate.PanDown},
}

// viewer implements ebiten.Game. Update turns key presses into navigation
// events and regenerates the frame when the view changed; Draw presents the
// last complete frame.
type viewer struct {
	frame     mandel.Frame
	workers   int
	nav       *navigate.Navigator
	offscreen *ebiten.Image
}

func newViewer(f mandel.Frame, workers int) *viewer {
	return &viewer{
		frame:     f,
		workers:   workers,
		nav:       navigate.New(f.View),
		offscreen: ebiten.NewImage(f.Width, f.Height),
	}
}

func (v *viewer) Update() error {
	// IsKeyJustPressed fires once per press, so holding a key does not
	// queue a frame per tick.
	for _, ke := range keyEvents {
		if inpututil.IsKeyJustPressed(ke.key) {
			v.nav.Handle(ke.event)
		}
	}
	if v.nav.Done() {
		return ebiten.Termination
	}

	if v.nav.NeedsFrame() {
		v.frame.View = v.nav.View()
		start := time.Now()
		img := render.Parallel(v.frame, v.workers)
		v.offscreen.WritePixels(img.Pix)
		v.nav.FrameRendered()
		log.Printf("%s rendered in %s", v.frame.View, time.Since(start))
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.offscreen, nil)
	v.nav.Settle()
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.frame.Width, v.frame.Height
}
