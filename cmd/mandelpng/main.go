// mandelpng renders the Mandelbrot set once and saves it as a PNG file.
// By default it renders the 800x800 black and white view centered on -0.5
// with 2000 iterations per pixel.

package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"time"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/render"
	"github.com/SzilvasiPeter/mandelplotter/sink"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	frame := mandel.StaticFrame()

	out := flag.String("o", "mandelbrot.png", "output file")
	parallel := flag.Bool("parallel", true, "render on all CPU cores")
	workers := flag.Int("workers", 0, "parallel workers, 0 means one per CPU")
	palette := flag.String("palette", frame.Palette.String(), "palette: mono, banded or wheel")
	flag.IntVar(&frame.Width, "width", frame.Width, "image width in pixels")
	flag.IntVar(&frame.Height, "height", frame.Height, "image height in pixels")
	flag.IntVar(&frame.Budget, "iterations", frame.Budget, "iteration budget per pixel")
	flag.Parse()

	p, err := mandel.ParsePalette(*palette)
	if err != nil {
		return err
	}
	frame.Palette = p
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("invalid frame: %w", err)
	}

	log.Printf("Rendering %dx%d, %s, %d iterations...", frame.Width, frame.Height, frame.View, frame.Budget)
	start := time.Now()
	var img *image.RGBA
	if *parallel {
		img = render.Parallel(frame, *workers)
	} else {
		img = render.Sequential(frame)
	}
	log.Printf("render took %s", time.Since(start))

	if err := sink.WritePNG(*out, img); err != nil {
		return err
	}
	log.Printf("Rendered image saved to %q", *out)
	return nil
}
