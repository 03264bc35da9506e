package navigate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	mandel "github.com/SzilvasiPeter/mandelplotter"
)

func TestApply(t *testing.T) {
	start := mandel.PanView(mandel.FullSet, 2, mgl64.Vec2{0.5, -0.5})

	tests := []struct {
		event Event
		zoom  float64
		pan   mgl64.Vec2
	}{
		{None, 2, mgl64.Vec2{0.5, -0.5}},
		{Quit, 2, mgl64.Vec2{0.5, -0.5}},
		{ZoomIn, 2 / 0.9, mgl64.Vec2{0.5, -0.5}},
		{ZoomOut, 2 * 0.9, mgl64.Vec2{0.5, -0.5}},
		{PanLeft, 2, mgl64.Vec2{0.45, -0.5}},
		{PanRight, 2, mgl64.Vec2{0.55, -0.5}},
		{PanUp, 2, mgl64.Vec2{0.5, -0.55}},
		{PanDown, 2, mgl64.Vec2{0.5, -0.45}},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			got := Apply(start, tt.event)
			if math.Abs(got.Zoom-tt.zoom) > 1e-12 {
				t.Errorf("zoom: got %g, want %g", got.Zoom, tt.zoom)
			}
			if !got.Pan.ApproxEqualThreshold(tt.pan, 1e-12) {
				t.Errorf("pan: got %v, want %v", got.Pan, tt.pan)
			}
			if got.Bounds != start.Bounds || got.Mapping != start.Mapping {
				t.Errorf("bounds or mapping changed: %v", got)
			}
		})
	}

	if start.Zoom != 2 || start.Pan != (mgl64.Vec2{0.5, -0.5}) {
		t.Errorf("Apply mutated its argument: %v", start)
	}
}

func TestApplyZoomRoundTrip(t *testing.T) {
	v := mandel.FullSet.View()
	for range 10 {
		v = Apply(v, ZoomIn)
	}
	for range 10 {
		v = Apply(v, ZoomOut)
	}
	if math.Abs(v.Zoom-1) > 1e-12 {
		t.Errorf("zoom after 10 in and 10 out: got %g, want 1", v.Zoom)
	}
}

func TestPanKeepsScreenShare(t *testing.T) {
	const w, h = 800, 600
	shift := func(zoom float64) float64 {
		v := mandel.PanView(mandel.FullSet, zoom, mgl64.Vec2{})
		before := v.Map(w/2, h/2, w, h)
		after := Apply(v, PanRight).Map(w/2, h/2, w, h)
		visible := v.Visible(w, h)
		return (real(after) - real(before)) / (visible.Xmax - visible.Xmin)
	}
	if a, b := shift(1), shift(37.5); math.Abs(a-b) > 1e-9 || math.Abs(a-PanStep) > 1e-9 {
		t.Errorf("pan share of the screen: %g at zoom 1, %g at zoom 37.5, want %g", a, b, PanStep)
	}
}

func TestNavigatorStates(t *testing.T) {
	n := New(mandel.FullSet.View())
	if n.State() != TransformUpdated || !n.NeedsFrame() {
		t.Fatalf("new navigator: state %s, want %s", n.State(), TransformUpdated)
	}

	n.FrameRendered()
	if n.State() != FrameRegenerated {
		t.Fatalf("after FrameRendered: state %s, want %s", n.State(), FrameRegenerated)
	}
	n.Settle()
	if n.State() != Idle || n.NeedsFrame() {
		t.Fatalf("after Settle: state %s, want %s", n.State(), Idle)
	}

	if n.Handle(None) || n.State() != Idle {
		t.Errorf("Handle(None): state %s, want %s", n.State(), Idle)
	}

	if !n.Handle(ZoomIn) || n.State() != TransformUpdated {
		t.Errorf("Handle(ZoomIn): state %s, want %s", n.State(), TransformUpdated)
	}
	if got, want := n.View().Zoom, 1/ZoomStep; math.Abs(got-want) > 1e-12 {
		t.Errorf("zoom: got %g, want %g", got, want)
	}

	// Settle without a rendered frame keeps the pending transform
	n.Settle()
	if !n.NeedsFrame() {
		t.Errorf("Settle before FrameRendered dropped the pending frame")
	}

	n.Handle(Quit)
	if !n.Done() || n.State() != Done {
		t.Fatalf("Handle(Quit): state %s, want %s", n.State(), Done)
	}
	before := n.View()
	if n.Handle(PanLeft) || n.View() != before || !n.Done() {
		t.Errorf("events after Quit must be ignored")
	}
	n.FrameRendered()
	n.Settle()
	if n.State() != Done {
		t.Errorf("Done is terminal: state %s", n.State())
	}
}
