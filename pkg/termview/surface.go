package termview

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/tstromberg/lightbox/pkg/lightbox"
	"k8s.io/klog/v2"
)

const upperHalfBlock = '▀'

var (
	backdropStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorBlack)
	titleStyle    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
)

// Surface renders the lightbox onto a tcell screen.
type Surface struct {
	screen tcell.Screen
	c      Config

	visible bool
	src     string
	title   string
	scale   float64
	pan     lightbox.Point
	cons    lightbox.Constraints

	img       image.Image
	fitted    image.Image
	fittedFor lightbox.Constraints

	// onSource is told about every new source so it can be loaded.
	onSource func(src string)
}

// NewSurface returns a hidden surface drawing to screen.
func NewSurface(screen tcell.Screen, c Config, onSource func(src string)) *Surface {
	return &Surface{screen: screen, c: c, scale: 1, onSource: onSource}
}

func (s *Surface) SetVisible(open bool) {
	s.visible = open
}

func (s *Surface) SetImageSource(src string) {
	if src == s.src && s.img != nil {
		return
	}
	s.src = src
	s.img = nil
	s.fitted = nil
	if s.onSource != nil {
		s.onSource(src)
	}
}

func (s *Surface) SetTitle(title string) {
	s.title = title
}

func (s *Surface) SetTransform(scale float64, pan lightbox.Point) {
	s.scale = scale
	s.pan = pan
}

func (s *Surface) SetSizeConstraints(c lightbox.Constraints) {
	s.cons = c
}

// SetImage hands a decoded image to the surface. Images for anything but the
// current source arrived too late and are dropped.
func (s *Surface) SetImage(src string, img image.Image) bool {
	if src != s.src {
		klog.V(2).Infof("dropping late image %s (showing %s)", src, s.src)
		return false
	}
	s.img = img
	s.fitted = nil
	return true
}

// Source returns the source currently displayed.
func (s *Surface) Source() string {
	return s.src
}

// BoundingBox returns the on-screen box of the image in pixels, after zoom and pan.
func (s *Surface) BoundingBox() lightbox.Rect {
	w := s.cons.Width * s.scale
	h := s.cons.Height * s.scale
	cx := s.cons.MaxWidth/2 + s.pan.X*s.scale
	cy := s.cons.MaxHeight/2 + s.pan.Y*s.scale
	return lightbox.Rect{Left: cx - w/2, Top: cy - h/2, Width: w, Height: h}
}

// TargetAt reports what lies under a pixel position.
func (s *Surface) TargetAt(p lightbox.Point) lightbox.Target {
	if p.Y >= s.cons.MaxHeight {
		return lightbox.TargetOther
	}
	if s.img != nil && s.BoundingBox().Contains(p) {
		return lightbox.TargetImage
	}
	return lightbox.TargetBackdrop
}

// raster returns the image to sample from: a pre-filtered copy at display
// resolution, or the original while zoomed in.
func (s *Surface) raster() image.Image {
	if s.img == nil {
		return nil
	}
	if s.scale > 1 {
		return s.img
	}
	if s.fitted != nil && s.fittedFor == s.cons {
		return s.fitted
	}

	w := int(math.Round(s.cons.Width / s.c.CellWidth))
	h := int(math.Round(s.cons.Height / s.c.CellHeight * 2))
	if w < 1 || h < 1 {
		return s.img
	}
	klog.V(1).Infof("resizing %s to %dx%d half-blocks", s.src, w, h)
	s.fitted = transform.Resize(s.img, w, h, transform.Linear)
	s.fittedFor = s.cons
	return s.fitted
}

func (s *Surface) sample(img image.Image, box lightbox.Rect, p lightbox.Point) tcell.Color {
	if img == nil || !box.Contains(p) {
		return tcell.ColorBlack
	}
	b := img.Bounds()
	x := b.Min.X + int((p.X-box.Left)/box.Width*float64(b.Dx()))
	y := b.Min.Y + int((p.Y-box.Top)/box.Height*float64(b.Dy()))
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)

	r, g, bl, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
}

// Draw paints the viewer over the whole screen. It does nothing while hidden.
func (s *Surface) Draw() {
	if !s.visible {
		return
	}

	cols, rows := s.screen.Size()
	img := s.raster()
	box := s.BoundingBox()

	for cy := 0; cy < rows-1; cy++ {
		for cx := 0; cx < cols; cx++ {
			x := (float64(cx) + 0.5) * s.c.CellWidth
			top := s.sample(img, box, lightbox.Point{X: x, Y: (float64(cy) + 0.25) * s.c.CellHeight})
			bottom := s.sample(img, box, lightbox.Point{X: x, Y: (float64(cy) + 0.75) * s.c.CellHeight})
			if top == tcell.ColorBlack && bottom == tcell.ColorBlack {
				s.screen.SetContent(cx, cy, ' ', nil, backdropStyle)
				continue
			}
			s.screen.SetContent(cx, cy, upperHalfBlock, nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}

	if rows > 0 {
		drawCentered(s.screen, rows-1, cols, s.title, titleStyle)
	}
}

// drawCentered fills row y with text centered and truncated to width.
func drawCentered(screen tcell.Screen, y int, width int, text string, style tcell.Style) {
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	text = runewidth.Truncate(text, width, "…")
	x := (width - runewidth.StringWidth(text)) / 2
	drawText(screen, x, y, text, style)
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}
