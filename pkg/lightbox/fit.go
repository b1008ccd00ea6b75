package lightbox

import "math"

// Constraints bound the rendered size of an image.
type Constraints struct {
	MaxWidth  float64
	MaxHeight float64

	// Width and Height are the size the image renders at inside the bounds.
	Width  float64
	Height float64
}

// Fit constrains an image to the viewport. The full viewport width is usable,
// the height loses padding. Images are shrunk to fit but never enlarged.
func Fit(natural Size, viewport Size, padding float64) Constraints {
	c := Constraints{
		MaxWidth:  math.Max(0, viewport.W),
		MaxHeight: math.Max(0, viewport.H-padding),
	}

	if natural.W <= 0 || natural.H <= 0 {
		return c
	}

	r := math.Min(1, math.Min(c.MaxWidth/natural.W, c.MaxHeight/natural.H))
	c.Width = natural.W * r
	c.Height = natural.H * r
	return c
}
