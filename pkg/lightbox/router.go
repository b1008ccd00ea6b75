package lightbox

import (
	"fmt"
	"time"

	"k8s.io/klog/v2"
)

// EventKind identifies an input event.
type EventKind int

const (
	EventClick EventKind = iota
	EventTouchStart
	EventTouchMove
	EventTouchEnd
	EventTouchCancel
	EventKey
	EventResize
)

var eventNames = map[EventKind]string{
	EventClick:       "click",
	EventTouchStart:  "touchstart",
	EventTouchMove:   "touchmove",
	EventTouchEnd:    "touchend",
	EventTouchCancel: "touchcancel",
	EventKey:         "key",
	EventResize:      "resize",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind maps an event name such as "touchstart" to its kind.
func ParseEventKind(s string) (EventKind, error) {
	for k, n := range eventNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is an input event delivered by a platform binding.
type Event struct {
	Kind   EventKind
	Target Target
	At     time.Time

	// Item is the grid index for clicks on TargetGrid.
	Item int
	// Pos is the click position.
	Pos Point

	// Touches are the active touches, Changed the ones lifted by a touch-end.
	Touches []Point
	Changed []Point

	Key      string
	Viewport Size
}

// Disposition tells the platform binding what to do with an event after routing.
type Disposition struct {
	// Claimed events must not reach any other handler.
	Claimed bool
	// PreventDefault suppresses native handling such as scrolling or synthetic clicks.
	PreventDefault bool
	Outcome        Outcome
}

// Router is the single capturing dispatcher for all input. While the viewer is
// open it owns every pointer event; while closed only grid activations reach it.
type Router struct {
	v *Viewer
}

// NewRouter returns a router delivering events to v.
func NewRouter(v *Viewer) *Router {
	return &Router{v: v}
}

// Viewer returns the viewer events are routed to.
func (r *Router) Viewer() *Viewer {
	return r.v
}

// Dispatch routes a single event.
func (r *Router) Dispatch(ev Event) Disposition {
	switch ev.Kind {
	case EventResize:
		r.v.Resize(ev.Viewport)
		return Disposition{}
	case EventKey:
		ok := r.v.HandleKey(ev.Key)
		return Disposition{Claimed: ok, PreventDefault: ok}
	}

	if !r.v.IsOpen() {
		return r.dispatchClosed(ev)
	}

	if ev.Target == TargetGrid {
		klog.V(2).Infof("blocked %s on grid while open", ev.Kind)
		return Disposition{Claimed: true, PreventDefault: true}
	}

	var o Outcome
	switch ev.Kind {
	case EventClick:
		return r.click(ev)
	case EventTouchStart:
		o = r.v.TouchStart(ev.Touches, ev.At)
	case EventTouchMove:
		o = r.v.TouchMove(ev.Touches)
	case EventTouchEnd:
		o = r.v.TouchEnd(ev.Changed, ev.Target, ev.At)
	case EventTouchCancel:
		o = r.v.TouchCancel()
	}

	// a handled tap must not be repeated by the synthetic click that follows it
	return Disposition{Claimed: true, PreventDefault: o.Consumed || o.Command != CommandNone, Outcome: o}
}

func (r *Router) dispatchClosed(ev Event) Disposition {
	if ev.Kind != EventClick || ev.Target != TargetGrid {
		return Disposition{}
	}
	if err := r.v.Open(ev.Item); err != nil {
		klog.Warningf("unable to open item %d: %v", ev.Item, err)
		return Disposition{}
	}
	return Disposition{Claimed: true, PreventDefault: true}
}

func (r *Router) click(ev Event) Disposition {
	var cmd Command
	switch ev.Target {
	case TargetImage:
		cmd = r.v.navigateByHalf(ev.Pos)
	case TargetBackdrop:
		r.v.Close()
		cmd = CommandClose
	}
	o := r.v.outcome(GestureNone, cmd, true, false)
	return Disposition{Claimed: true, PreventDefault: cmd != CommandNone, Outcome: o}
}
