// mandelview shows the Mandelbrot set in a window.
// Arrows (or WASD) pan, +/- (or I/O) zoom, Esc or Q quits.

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	mandel "github.com/SzilvasiPeter/mandelplotter"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	frame := mandel.ViewerFrame()

	region := flag.String("region", "full", fmt.Sprintf("initial region: %v", mandel.RegionNames()))
	palette := flag.String("palette", frame.Palette.String(), "palette: mono, banded or wheel")
	workers := flag.Int("workers", 0, "render workers, 0 means one per CPU")
	flag.IntVar(&frame.Budget, "iterations", frame.Budget, "iteration budget per pixel")
	flag.Parse()

	r, err := mandel.LookupRegion(*region)
	if err != nil {
		return err
	}
	frame.View = r.View()
	if frame.Palette, err = mandel.ParsePalette(*palette); err != nil {
		return err
	}
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("invalid frame: %w", err)
	}

	ebiten.SetWindowSize(frame.Width, frame.Height)
	ebiten.SetWindowTitle("Mandelbrot - Pan: Arrows/WASD | Zoom: +/- I/O | Quit: Esc/Q")
	ebiten.SetTPS(tps)

	if err := ebiten.RunGame(newViewer(frame, *workers)); err != nil {
		return fmt.Errorf("ebiten.RunGame: %w", err)
	}
	log.Printf("viewer closed")
	return nil
}
