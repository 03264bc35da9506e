package mandel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mapping selects the pixel to plane convention of a View.
type Mapping uint8

const (
	// CenterZoom maps per axis as
	//
	//	center + (p - dim/2) / (dim/2) * Zoom
	//
	// so Zoom is the half extent of the view on each axis.
	CenterZoom Mapping = iota

	// BoundsPan maps per axis as
	//
	//	((p - dim/2) / (Zoom*dim) + pan) * (max-min) + (max+min)/2
	//
	// so at Zoom 1 and zero Pan the frame shows exactly Bounds. Pan is
	// measured in multiples of the Bounds extent.
	BoundsPan
)

func (m Mapping) String() string {
	switch m {
	case CenterZoom:
		return "center+zoom"
	case BoundsPan:
		return "bounds+pan"
	default:
		return fmt.Sprintf("Mapping(%d)", uint8(m))
	}
}

// View is the transform from pixel space to the complex plane for one frame.
// Center is used by CenterZoom only; Pan and Bounds by BoundsPan only.
type View struct {
	Mapping Mapping
	Center  complex128
	Zoom    float64
	Pan     mgl64.Vec2
	Bounds  Region
}

// CenterView returns a center+zoom view.
func CenterView(center complex128, zoom float64) View {
	return View{Mapping: CenterZoom, Center: center, Zoom: zoom}
}

// PanView returns a bounds+pan view.
func PanView(bounds Region, zoom float64, pan mgl64.Vec2) View {
	return View{Mapping: BoundsPan, Bounds: bounds, Zoom: zoom, Pan: pan}
}

// Map returns the complex coordinate of pixel (px, py) in a w x h frame.
func (v View) Map(px, py, w, h int) complex128 {
	fw, fh := float64(w), float64(h)
	x, y := float64(px), float64(py)

	if v.Mapping == BoundsPan {
		b := v.Bounds
		re := ((x-fw/2)/(v.Zoom*fw)+v.Pan.X())*(b.Xmax-b.Xmin) + (b.Xmax+b.Xmin)/2
		im := ((y-fh/2)/(v.Zoom*fh)+v.Pan.Y())*(b.Ymax-b.Ymin) + (b.Ymax+b.Ymin)/2
		return complex(re, im)
	}

	re := real(v.Center) + (x-fw/2)/(fw/2)*v.Zoom
	im := imag(v.Center) + (y-fh/2)/(fh/2)*v.Zoom
	return complex(re, im)
}

// PlaneCenter returns the coordinate the center pixel of any frame maps to.
func (v View) PlaneCenter() complex128 {
	if v.Mapping == BoundsPan {
		b := v.Bounds
		return complex(
			v.Pan.X()*(b.Xmax-b.Xmin)+(b.Xmax+b.Xmin)/2,
			v.Pan.Y()*(b.Ymax-b.Ymin)+(b.Ymax+b.Ymin)/2,
		)
	}
	return v.Center
}

// Visible returns the plane region covered by a w x h frame.
func (v View) Visible(w, h int) Region {
	tl := v.Map(0, 0, w, h)
	br := v.Map(w, h, w, h)
	return Region{Xmin: real(tl), Xmax: real(br), Ymin: imag(tl), Ymax: imag(br)}
}

func (v View) String() string {
	if v.Mapping == BoundsPan {
		return fmt.Sprintf("%s bounds=%+v zoom=%g pan=(%g,%g)", v.Mapping, v.Bounds, v.Zoom, v.Pan.X(), v.Pan.Y())
	}
	return fmt.Sprintf("%s center=%v zoom=%g", v.Mapping, v.Center, v.Zoom)
}
