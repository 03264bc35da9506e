// Package navigate holds the pan and zoom state of the interactive viewer.
//
// Input is reduced to discrete Events. Apply turns an Event into a new View
// without touching any state; Navigator tracks the current View and the
// viewer's state across frames:
//
//	Idle --event--> TransformUpdated --FrameRendered--> FrameRegenerated --Settle--> Idle
//	any state --Quit--> Done
package navigate

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	mandel "github.com/SzilvasiPeter/mandelplotter"
)

// ZoomStep is the factor ZoomOut multiplies the zoom by; ZoomIn divides.
const ZoomStep = 0.9

// PanStep is the pan distance at zoom 1, as a fraction of the view bounds.
const PanStep = 0.1

type Event uint8

const (
	None Event = iota
	ZoomIn
	ZoomOut
	PanLeft
	PanRight
	PanUp
	PanDown
	Quit
)

var eventNames = [...]string{"none", "zoom-in", "zoom-out", "pan-left", "pan-right", "pan-up", "pan-down", "quit"}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", uint8(e))
}

// Direction of each pan event in pixel orientation: y grows downwards.
var panDirections = map[Event]mgl64.Vec2{
	PanLeft:  {-1, 0},
	PanRight: {1, 0},
	PanUp:    {0, -1},
	PanDown:  {0, 1},
}

// Apply returns v transformed by e. Zoom events scale v.Zoom; pan events
// move v.Pan by PanStep/v.Zoom, so a pan covers the same share of the
// screen at any depth. Other events return v unchanged.
func Apply(v mandel.View, e Event) mandel.View {
	switch e {
	case ZoomIn:
		v.Zoom *= 1 / ZoomStep
	case ZoomOut:
		v.Zoom *= ZoomStep
	case PanLeft, PanRight, PanUp, PanDown:
		v.Pan = v.Pan.Add(panDirections[e].Mul(PanStep / v.Zoom))
	}
	return v
}

type State uint8

const (
	Idle State = iota
	TransformUpdated
	FrameRegenerated
	Done
)

var stateNames = [...]string{"idle", "transform-updated", "frame-regenerated", "done"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Navigator is the sole owner of the viewer's View.
type Navigator struct {
	view  mandel.View
	state State
}

// New starts in TransformUpdated so the first frame gets rendered.
func New(v mandel.View) *Navigator {
	return &Navigator{view: v, state: TransformUpdated}
}

func (n *Navigator) View() mandel.View { return n.view }
func (n *Navigator) State() State { return n.state }

// Handle feeds one event. It reports whether the view changed and a new
// frame is needed. Events are ignored once Done.
func (n *Navigator) Handle(e Event) bool {
	if n.state == Done || e == None {
		return false
	}
	if e == Quit {
		n.state = Done
		return false
	}
	n.view = Apply(n.view, e)
	n.state = TransformUpdated
	return true
}

// NeedsFrame reports whether the current view has not been rendered yet.
func (n *Navigator) NeedsFrame() bool {
	return n.state == TransformUpdated
}

// FrameRendered records that a frame for the current view is complete.
func (n *Navigator) FrameRendered() {
	if n.state == TransformUpdated {
		n.state = FrameRegenerated
	}
}

// Settle returns to Idle after the regenerated frame has been presented.
func (n *Navigator) Settle() {
	if n.state == FrameRegenerated {
		n.state = Idle
	}
}

// Done reports whether Quit was handled.
func (n *Navigator) Done() bool {
	return n.state == Done
}
