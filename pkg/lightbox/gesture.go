package lightbox

import (
	"fmt"
	"math"
	"time"

	"k8s.io/klog/v2"
)

// Mode selects how single-finger input is interpreted.
type Mode int

const (
	// ModeSwipe treats a drag as navigation.
	ModeSwipe Mode = iota
	// ModePan moves a zoomed image.
	ModePan
	// ModePinch changes the zoom level.
	ModePinch
)

func (m Mode) String() string {
	switch m {
	case ModeSwipe:
		return "swipe"
	case ModePan:
		return "pan"
	case ModePinch:
		return "pinch"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Target is the element an input event landed on.
type Target int

const (
	TargetOther Target = iota
	TargetBackdrop
	TargetImage
	TargetGrid
)

var targetNames = map[Target]string{
	TargetOther:    "other",
	TargetBackdrop: "backdrop",
	TargetImage:    "image",
	TargetGrid:     "grid",
}

func (t Target) String() string {
	if n, ok := targetNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// ParseTarget maps a target name back to a Target. Unknown names are TargetOther.
func ParseTarget(s string) Target {
	for t, n := range targetNames {
		if n == s {
			return t
		}
	}
	return TargetOther
}

// Gesture is what a touch interaction was recognized as.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureTap
	GestureSwipe
	GesturePan
	GesturePinch
)

func (g Gesture) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureTap:
		return "tap"
	case GestureSwipe:
		return "swipe"
	case GesturePan:
		return "pan"
	case GesturePinch:
		return "pinch"
	}
	return fmt.Sprintf("Gesture(%d)", int(g))
}

// Command is the viewer action a gesture triggered.
type Command int

const (
	CommandNone Command = iota
	CommandPrevious
	CommandNext
	CommandClose
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandPrevious:
		return "previous"
	case CommandNext:
		return "next"
	case CommandClose:
		return "close"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Outcome reports what a single touch event did.
type Outcome struct {
	Gesture Gesture
	Command Command
	Scale   float64
	Pan     Point

	// Ended is set when the event finished the gesture.
	Ended bool
	// Consumed is set when native handling (scrolling, browser zoom) must be suppressed.
	Consumed bool
}

func (o Outcome) String() string {
	phase := "update"
	if o.Ended {
		phase = "end"
	}
	s := fmt.Sprintf("%s-%s", o.Gesture, phase)
	if o.Command != CommandNone {
		s += " " + o.Command.String()
	}
	return fmt.Sprintf("%s scale=%.2f pan=(%.0f,%.0f)", s, o.Scale, o.Pan.X, o.Pan.Y)
}

// GestureSession tracks a single touch interaction from touch-start to touch-end.
type GestureSession struct {
	Touches   int
	Start     Point
	StartTime time.Time

	InitialDistance float64
	InitialScale    float64
	LastPan         Point

	Moved    bool
	Panning  bool
	Pinching bool
}

func distance(a, b Point) float64 {
	return a.Sub(b).Len()
}

func pinchRatio(now, initial float64) float64 {
	if initial == 0 {
		if now == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return now / initial
}

// Session returns the active gesture session, or nil between interactions.
func (v *Viewer) Session() *GestureSession {
	return v.session
}

func (v *Viewer) outcome(g Gesture, c Command, ended bool, consumed bool) Outcome {
	return Outcome{
		Gesture:  g,
		Command:  c,
		Scale:    v.state.Scale,
		Pan:      v.state.Pan,
		Ended:    ended,
		Consumed: consumed,
	}
}

// TouchStart begins a new gesture session. Any previous session is discarded.
func (v *Viewer) TouchStart(touches []Point, at time.Time) Outcome {
	s := &GestureSession{
		Touches:      len(touches),
		StartTime:    at,
		InitialScale: v.state.Scale,
		LastPan:      v.state.Pan,
	}
	v.session = s

	klog.V(2).Infof("touchstart: touches=%d scale=%.2f mode=%s", s.Touches, v.state.Scale, v.state.Mode)

	switch len(touches) {
	case 1:
		v.state.Mode = ModeSwipe
		if v.state.Scale > 1 {
			v.state.Mode = ModePan
		}
		s.Start = touches[0]
		klog.V(2).Infof("touchstart: single finger at (%.0f,%.0f), mode=%s", s.Start.X, s.Start.Y, v.state.Mode)
	case 2:
		v.state.Mode = ModePinch
		s.InitialDistance = distance(touches[0], touches[1])
		s.Pinching = true
		klog.V(2).Infof("touchstart: pinch from distance %.1f at scale %.2f", s.InitialDistance, s.InitialScale)
		// native zoom would fight ours
		return v.outcome(GesturePinch, CommandNone, false, true)
	}

	return v.outcome(GestureNone, CommandNone, false, false)
}

// TouchMove updates the active session with the current touch positions.
func (v *Viewer) TouchMove(touches []Point) Outcome {
	s := v.session
	if s == nil {
		return v.outcome(GestureNone, CommandNone, false, false)
	}

	if s.Touches == 2 && len(touches) == 2 && s.Pinching {
		ratio := pinchRatio(distance(touches[0], touches[1]), s.InitialDistance)
		v.state.Scale = clampScale(s.InitialScale * ratio)
		v.surface.SetTransform(v.state.Scale, v.state.Pan)
		return v.outcome(GesturePinch, CommandNone, false, true)
	}

	switch v.state.Mode {
	case ModePan:
		if s.Touches != 1 || len(touches) != 1 {
			return v.outcome(GestureNone, CommandNone, false, true)
		}
		v.state.Pan = s.LastPan.Add(touches[0].Sub(s.Start))
		s.Panning = true
		v.surface.SetTransform(v.state.Scale, v.state.Pan)
		return v.outcome(GesturePan, CommandNone, false, true)
	case ModeSwipe:
		if s.Touches == 1 && len(touches) == 1 && !s.Moved {
			if d := touches[0].Sub(s.Start).Len(); d > MoveThreshold {
				s.Moved = true
				klog.V(2).Infof("touchmove: swipe movement %.1f", d)
			}
		}
	}

	return v.outcome(GestureNone, CommandNone, false, false)
}

// TouchEnd finishes the active session and performs at most one command.
// changed holds the touches that were lifted, target is where they were lifted.
func (v *Viewer) TouchEnd(changed []Point, target Target, at time.Time) Outcome {
	s := v.session
	if s == nil {
		return v.outcome(GestureNone, CommandNone, false, false)
	}
	v.session = nil
	defer v.settleMode()

	klog.V(2).Infof("touchend: mode=%s scale=%.2f touches=%d panning=%v pinching=%v moved=%v",
		v.state.Mode, v.state.Scale, s.Touches, s.Panning, s.Pinching, s.Moved)

	if v.state.Mode == ModePan {
		return v.outcome(GesturePan, CommandNone, true, false)
	}

	if s.Touches >= 2 || s.Pinching {
		v.state.Scale = clampScale(v.state.Scale)
		klog.V(2).Infof("touchend: pinch finished at scale %.2f", v.state.Scale)
		return v.outcome(GesturePinch, CommandNone, true, false)
	}

	if s.Panning {
		return v.outcome(GesturePan, CommandNone, true, false)
	}

	if s.Touches != 1 || len(changed) != 1 || v.state.Scale > 1 {
		klog.V(2).Infof("touchend: not a tap or swipe candidate")
		return v.outcome(GestureNone, CommandNone, true, false)
	}

	end := changed[0]
	delta := end.Sub(s.Start)
	dist := delta.Len()
	dur := at.Sub(s.StartTime)

	klog.V(2).Infof("touchend: delta=(%.0f,%.0f) distance=%.1f duration=%s", delta.X, delta.Y, dist, dur)

	if dur < TapDuration && dist < TapDistance {
		return v.tap(end, target)
	}

	if s.Moved && dist > SwipeDistance {
		return v.swipe(delta)
	}

	return v.outcome(GestureNone, CommandNone, true, false)
}

// TouchCancel abandons the active session, keeping any zoom or pan it produced.
func (v *Viewer) TouchCancel() Outcome {
	s := v.session
	if s == nil {
		return v.outcome(GestureNone, CommandNone, false, false)
	}
	v.session = nil
	defer v.settleMode()

	v.state.Scale = clampScale(v.state.Scale)
	switch {
	case s.Touches >= 2 || s.Pinching:
		return v.outcome(GesturePinch, CommandNone, true, false)
	case s.Panning:
		return v.outcome(GesturePan, CommandNone, true, false)
	}
	return v.outcome(GestureNone, CommandNone, true, false)
}

func (v *Viewer) tap(at Point, target Target) Outcome {
	klog.V(2).Infof("touchend: tap on %s", target)

	switch target {
	case TargetBackdrop:
		v.Close()
		return v.outcome(GestureTap, CommandClose, true, false)
	case TargetImage:
		cmd := v.navigateByHalf(at)
		return v.outcome(GestureTap, cmd, true, false)
	}
	return v.outcome(GestureTap, CommandNone, true, false)
}

func (v *Viewer) swipe(delta Point) Outcome {
	ax, ay := math.Abs(delta.X), math.Abs(delta.Y)

	switch {
	case ax > ay && ax > SwipeDistance:
		if delta.X > 0 {
			v.ShowPrevious()
			return v.outcome(GestureSwipe, CommandPrevious, true, false)
		}
		v.ShowNext()
		return v.outcome(GestureSwipe, CommandNext, true, false)
	case ay > ax && ay > SwipeDistance:
		v.Close()
		return v.outcome(GestureSwipe, CommandClose, true, false)
	}

	klog.V(2).Infof("touchend: swipe without a dominant direction: (%.0f,%.0f)", delta.X, delta.Y)
	return v.outcome(GestureSwipe, CommandNone, true, false)
}

// navigateByHalf goes back when p is on the left half of the image, forward otherwise.
func (v *Viewer) navigateByHalf(p Point) Command {
	box := v.surface.BoundingBox()
	if p.X-box.Left < box.Width/2 {
		v.ShowPrevious()
		return CommandPrevious
	}
	v.ShowNext()
	return CommandNext
}

// settleMode puts the idle mode back in line with the zoom level.
func (v *Viewer) settleMode() {
	v.state.Mode = ModeSwipe
	if v.state.Scale > 1 {
		v.state.Mode = ModePan
	}
}
