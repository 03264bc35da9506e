package mandel

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Palette turns an escape Outcome into a color. Bounded points are black in
// every palette.
type Palette uint8

const (
	// Monochrome paints escaped points white.
	Monochrome Palette = iota
	// Banded derives channels from the escape count modulo 256.
	Banded
	// Wheel walks a fully saturated hue wheel, one step per iteration.
	Wheel
)

// wheelSteps is the number of distinct hues of Wheel (255 per sextant).
const wheelSteps = 255 * 6

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Color returns the color of o.
func (p Palette) Color(o Outcome) color.RGBA {
	if o.Bounded() {
		return black
	}

	n := o.Iterations
	switch p {
	case Banded:
		return color.RGBA{uint8(n % 256), uint8((n / 8) % 256), uint8((n / 16) % 256), 255}
	case Wheel:
		return hsv(float64(n%wheelSteps)/wheelSteps, 1, 1)
	default:
		return white
	}
}

func (p Palette) String() string {
	switch p {
	case Monochrome:
		return "mono"
	case Banded:
		return "banded"
	case Wheel:
		return "wheel"
	default:
		return fmt.Sprintf("Palette(%d)", uint8(p))
	}
}

// ParsePalette is the inverse of Palette.String.
func ParsePalette(s string) (Palette, error) {
	for _, p := range []Palette{Monochrome, Banded, Wheel} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown palette %q", s)
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}
