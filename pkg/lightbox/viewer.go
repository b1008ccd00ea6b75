package lightbox

import (
	"errors"
	"fmt"

	"k8s.io/klog/v2"
)

var (
	// ErrNoImages is returned when opening a viewer without images.
	ErrNoImages = errors.New("no images")
	// ErrIndexOutOfRange is returned when opening an image that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// State is the observable state of a Viewer.
type State struct {
	Open  bool
	Index int
	Scale float64
	Pan   Point
	Mode  Mode
}

// Viewer is a lightbox over an ordered collection of images.
//
// A Viewer is not safe for concurrent use: all methods are expected to run on
// the event loop that delivers input.
type Viewer struct {
	c       Config
	images  []ImageEntry
	surface Surface
	preload Preloader

	state    State
	session  *GestureSession
	viewport Size
	natural  Size

	// naturalFor is the source natural was reported for.
	naturalFor string
}

// New returns a closed viewer. A nil surface or preloader is allowed.
func New(c Config, images []ImageEntry, s Surface, p Preloader) *Viewer {
	if s == nil {
		s = nopSurface{}
	}
	return &Viewer{
		c:       c,
		images:  images,
		surface: s,
		preload: p,
		state:   State{Scale: 1, Mode: ModeSwipe},
	}
}

// State returns a copy of the viewer state.
func (v *Viewer) State() State {
	return v.state
}

// IsOpen reports whether the viewer is showing an image.
func (v *Viewer) IsOpen() bool {
	return v.state.Open
}

// Len returns the number of images.
func (v *Viewer) Len() int {
	return len(v.images)
}

// Image returns the entry at index i.
func (v *Viewer) Image(i int) (ImageEntry, bool) {
	if i < 0 || i >= len(v.images) {
		return ImageEntry{}, false
	}
	return v.images[i], true
}

// Current returns the entry currently selected.
func (v *Viewer) Current() (ImageEntry, bool) {
	return v.Image(v.state.Index)
}

// Open shows the image at index i.
func (v *Viewer) Open(i int) error {
	if len(v.images) == 0 {
		return ErrNoImages
	}
	if i < 0 || i >= len(v.images) {
		return fmt.Errorf("open %d of %d: %w", i, len(v.images), ErrIndexOutOfRange)
	}

	klog.V(1).Infof("opening %d: %s", i, v.images[i].Source)
	v.state.Open = true
	v.state.Index = i
	v.surface.SetVisible(true)
	v.display()
	return nil
}

// Close hides the viewer and forgets zoom and pan.
func (v *Viewer) Close() {
	klog.V(1).Infof("closing")
	v.state.Open = false
	v.session = nil
	v.surface.SetVisible(false)
	v.resetTransform()
}

// ShowPrevious moves to the previous image, wrapping to the last one.
func (v *Viewer) ShowPrevious() {
	n := len(v.images)
	if n == 0 {
		return
	}
	v.state.Index = (v.state.Index - 1 + n) % n
	v.display()
}

// ShowNext moves to the next image, wrapping to the first one.
func (v *Viewer) ShowNext() {
	n := len(v.images)
	if n == 0 {
		return
	}
	v.state.Index = (v.state.Index + 1) % n
	v.display()
}

// HandleKey reacts to a keyboard key named as in KeyboardEvent.key.
// Keys are ignored while the viewer is closed.
func (v *Viewer) HandleKey(key string) bool {
	if !v.state.Open {
		return false
	}

	switch key {
	case "Escape":
		v.Close()
	case "ArrowLeft":
		v.ShowPrevious()
	case "ArrowRight":
		v.ShowNext()
	default:
		return false
	}
	return true
}

// Resize records the viewport size and refits the open image. Zoom, pan and
// selection are left alone.
func (v *Viewer) Resize(viewport Size) {
	v.viewport = viewport
	if v.state.Open {
		v.fit()
	}
}

// ImageLoaded is called by the surface once the current image has loaded.
func (v *Viewer) ImageLoaded(natural Size) {
	v.natural = natural
	if e, ok := v.Current(); ok {
		v.naturalFor = e.Source
	}
	if v.state.Open {
		v.fit()
	}
}

// Constraints returns the size constraints for the current image and viewport.
func (v *Viewer) Constraints() Constraints {
	return Fit(v.natural, v.viewport, v.c.Padding)
}

func (v *Viewer) fit() {
	c := v.Constraints()
	klog.V(1).Infof("fit %.0fx%.0f into %.0fx%.0f: %.0fx%.0f", v.natural.W, v.natural.H, c.MaxWidth, c.MaxHeight, c.Width, c.Height)
	v.surface.SetSizeConstraints(c)
}

// display shows the current image from an unzoomed state.
func (v *Viewer) display() {
	e := v.images[v.state.Index]
	klog.V(1).Infof("showing %d/%d: %s", v.state.Index+1, len(v.images), e.Source)

	// a surface showing the same source again may not report a new load
	if e.Source != v.naturalFor {
		v.natural = Size{}
		v.naturalFor = ""
	}
	v.surface.SetImageSource(e.Source)
	v.surface.SetTitle(e.Title)
	v.resetTransform()
	v.fit()
	v.preloadAdjacent()
}

func (v *Viewer) resetTransform() {
	v.state.Scale = 1
	v.state.Pan = Point{}
	v.state.Mode = ModeSwipe
	v.surface.SetTransform(1, Point{})
}

func (v *Viewer) preloadAdjacent() {
	n := len(v.images)
	if v.preload == nil || n == 0 {
		return
	}
	i := v.state.Index
	for _, j := range []int{(i - 1 + n) % n, (i + 1) % n} {
		v.preload.Preload(v.images[j].Source)
	}
}
