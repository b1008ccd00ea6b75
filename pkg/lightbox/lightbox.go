// Package lightbox implements a full-screen image viewer driven by touch, mouse and keyboard input.
package lightbox

import (
	"math"
	"time"
)

// Gesture thresholds. Distances are in CSS pixels.
const (
	MoveThreshold  = 10.0
	TapDuration    = 300 * time.Millisecond
	TapDistance    = 20.0
	SwipeDistance  = 80.0
	MinScale       = 0.5
	MaxScale       = 3.0
	DefaultPadding = 32.0
)

// Config holds configuration for a Viewer.
type Config struct {
	// Padding is subtracted from the viewport height when fitting an image.
	Padding float64
}

// DefaultConfig returns the configuration the gallery ships with.
func DefaultConfig() Config {
	return Config{Padding: DefaultPadding}
}

// Point is a position in viewport coordinates.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Len returns the distance of p from the origin.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Size is a width and height pair.
type Size struct {
	W float64 `yaml:"width"`
	H float64 `yaml:"height"`
}

// Rect is a bounding box in viewport coordinates.
type Rect struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width && p.Y >= r.Top && p.Y < r.Top+r.Height
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Min(MaxScale, math.Max(MinScale, s))
}
