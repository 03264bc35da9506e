// Package sink writes rendered results out: PNG files and console reports.
package sink

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strconv"
)

// WritePNG encodes img as PNG into a new file at path, replacing any
// existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", path, err)
	}
	return nil
}

// FormatComplex renders c the way membership reports print it, e.g. (-1+0i).
func FormatComplex(c complex128) string {
	return strconv.FormatComplex(c, 'g', -1, 128)
}

// MembershipLine is the one line report for a single point.
func MembershipLine(c complex128, in bool) string {
	if in {
		return fmt.Sprintf("The complex number %s is in the Mandelbrot set.", FormatComplex(c))
	}
	return fmt.Sprintf("The complex number %s is not in the Mandelbrot set.", FormatComplex(c))
}

// Membership writes MembershipLine and a newline to w.
func Membership(w io.Writer, c complex128, in bool) error {
	_, err := fmt.Fprintln(w, MembershipLine(c, in))
	return err
}
