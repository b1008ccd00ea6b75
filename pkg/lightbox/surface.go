package lightbox

import "fmt"

// Surface displays the current image.
type Surface interface {
	// SetVisible shows or hides the viewer overlay.
	SetVisible(open bool)
	SetImageSource(src string)
	SetTitle(title string)
	SetTransform(scale float64, pan Point)
	SetSizeConstraints(c Constraints)
	// BoundingBox is the on-screen box of the displayed image.
	BoundingBox() Rect
}

// Preloader warms a cache with an image that may be displayed soon.
// Preload must not block.
type Preloader interface {
	Preload(src string)
}

// Recorder is a Surface and Preloader that remembers what it was asked to do.
type Recorder struct {
	Box Rect

	Visible     bool
	Source      string
	Title       string
	Scale       float64
	Pan         Point
	Constraints Constraints

	Preloaded []string
	Calls     []string
}

func (r *Recorder) SetVisible(open bool) {
	r.Visible = open
	r.Calls = append(r.Calls, fmt.Sprintf("visible %v", open))
}

func (r *Recorder) SetImageSource(src string) {
	r.Source = src
	r.Calls = append(r.Calls, "source "+src)
}

func (r *Recorder) SetTitle(title string) {
	r.Title = title
	r.Calls = append(r.Calls, "title "+title)
}

func (r *Recorder) SetTransform(scale float64, pan Point) {
	r.Scale = scale
	r.Pan = pan
	r.Calls = append(r.Calls, fmt.Sprintf("transform %.2f (%.0f,%.0f)", scale, pan.X, pan.Y))
}

func (r *Recorder) SetSizeConstraints(c Constraints) {
	r.Constraints = c
	r.Calls = append(r.Calls, fmt.Sprintf("constraints %.0fx%.0f", c.MaxWidth, c.MaxHeight))
}

func (r *Recorder) BoundingBox() Rect {
	return r.Box
}

func (r *Recorder) Preload(src string) {
	r.Preloaded = append(r.Preloaded, src)
}

type nopSurface struct{}

func (nopSurface) SetVisible(bool)                {}
func (nopSurface) SetImageSource(string)          {}
func (nopSurface) SetTitle(string)                {}
func (nopSurface) SetTransform(float64, Point)    {}
func (nopSurface) SetSizeConstraints(Constraints) {}
func (nopSurface) BoundingBox() Rect              { return Rect{} }
