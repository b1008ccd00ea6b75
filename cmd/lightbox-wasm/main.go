//go:build js && wasm

// Command lightbox-wasm binds the lightbox to a gallery page in the browser.
//
// The page provides .gallery-item elements carrying data-full and data-title
// attributes, and a #lightbox element holding .lightbox-content and #lightbox-image.
package main

import (
	"fmt"
	"strconv"
	"syscall/js"
	"time"

	"github.com/tstromberg/lightbox/pkg/lightbox"
	"k8s.io/klog/v2"
)

var (
	jsWindow   js.Value
	jsDocument js.Value

	// funcs keeps listeners reachable for the life of the page.
	funcs []js.Func
)

// domSurface renders the viewer with the page's lightbox elements.
type domSurface struct {
	box     js.Value
	content js.Value
	img     js.Value
	title   js.Value
	body    js.Value
}

func (s *domSurface) SetVisible(open bool) {
	if open {
		s.box.Get("classList").Call("add", "active")
		s.body.Get("style").Set("overflow", "hidden")
		s.body.Get("classList").Call("add", "lightbox-active")
		return
	}
	s.box.Get("classList").Call("remove", "active")
	s.body.Get("style").Set("overflow", "")
	s.body.Get("classList").Call("remove", "lightbox-active")
}

func (s *domSurface) SetImageSource(src string) {
	s.img.Set("src", src)
}

func (s *domSurface) SetTitle(title string) {
	if s.title.IsUndefined() {
		s.title = jsDocument.Call("createElement", "div")
		s.title.Set("className", "lightbox-title")
		s.content.Call("appendChild", s.title)
	}
	s.title.Set("textContent", title)
}

func (s *domSurface) SetTransform(scale float64, pan lightbox.Point) {
	s.img.Get("style").Set("transform", fmt.Sprintf("scale(%g) translate(%gpx, %gpx)", scale, pan.X, pan.Y))
}

func (s *domSurface) SetSizeConstraints(c lightbox.Constraints) {
	style := s.img.Get("style")
	style.Set("width", "auto")
	style.Set("height", "auto")
	style.Set("maxWidth", fmt.Sprintf("%gpx", c.MaxWidth))
	style.Set("maxHeight", fmt.Sprintf("%gpx", c.MaxHeight))
}

func (s *domSurface) BoundingBox() lightbox.Rect {
	r := s.img.Call("getBoundingClientRect")
	return lightbox.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

// imagePreloader warms the browser cache with detached Image objects.
type imagePreloader struct{}

func (imagePreloader) Preload(src string) {
	img := jsWindow.Get("Image").New()
	img.Set("src", src)
}

// binding routes document events through the lightbox router.
type binding struct {
	router  *lightbox.Router
	surface *domSurface
}

// collect reads the gallery items and numbers them for later lookup.
func collect() []lightbox.Item {
	nodes := jsDocument.Call("querySelectorAll", ".gallery-item")
	items := []lightbox.Item{}
	for i := 0; i < nodes.Length(); i++ {
		n := nodes.Index(i)
		src := n.Call("getAttribute", "data-full").String()
		raw := n.Call("getAttribute", "data-title")
		title := ""
		if raw.IsNull() || raw.String() == "" {
			title = lightbox.FilenameFromURL(src)
		} else {
			title = raw.String()
		}
		n.Get("dataset").Set("lightboxIndex", strconv.Itoa(i))
		items = append(items, lightbox.Item{Source: src, RawTitle: title})
	}
	return items
}

// target classifies the element an event was aimed at.
func (b *binding) target(el js.Value) (lightbox.Target, int) {
	if el.IsUndefined() || el.IsNull() || el.Get("classList").IsUndefined() {
		return lightbox.TargetOther, 0
	}
	if el.Equal(b.surface.box) || el.Get("classList").Call("contains", "lightbox-content").Bool() {
		return lightbox.TargetBackdrop, 0
	}
	if el.Equal(b.surface.img) || !el.Call("closest", "#lightbox-image").IsNull() {
		return lightbox.TargetImage, 0
	}
	if item := el.Call("closest", ".gallery-item"); !item.IsNull() {
		i, err := strconv.Atoi(item.Get("dataset").Get("lightboxIndex").String())
		if err == nil {
			return lightbox.TargetGrid, i
		}
	}
	return lightbox.TargetOther, 0
}

func points(list js.Value) []lightbox.Point {
	if list.IsUndefined() {
		return nil
	}
	ps := make([]lightbox.Point, list.Length())
	for i := range ps {
		t := list.Index(i)
		ps[i] = lightbox.Point{X: t.Get("clientX").Float(), Y: t.Get("clientY").Float()}
	}
	return ps
}

func viewport() lightbox.Size {
	return lightbox.Size{W: jsWindow.Get("innerWidth").Float(), H: jsWindow.Get("innerHeight").Float()}
}

// handle converts a DOM event, dispatches it and applies the disposition.
func (b *binding) handle(kind lightbox.EventKind, e js.Value) {
	t, item := b.target(e.Get("target"))
	ev := lightbox.Event{Kind: kind, Target: t, Item: item, At: time.Now()}

	switch kind {
	case lightbox.EventClick:
		ev.Pos = lightbox.Point{X: e.Get("clientX").Float(), Y: e.Get("clientY").Float()}
	case lightbox.EventTouchStart, lightbox.EventTouchMove, lightbox.EventTouchEnd, lightbox.EventTouchCancel:
		ev.Touches = points(e.Get("touches"))
		ev.Changed = points(e.Get("changedTouches"))
	case lightbox.EventKey:
		ev.Key = e.Get("key").String()
	}

	d := b.router.Dispatch(ev)
	klog.V(2).Infof("%s on %s: claimed=%v prevent=%v %s", kind, t, d.Claimed, d.PreventDefault, d.Outcome)
	if d.PreventDefault && e.Get("cancelable").Bool() {
		e.Call("preventDefault")
	}
	if d.Claimed {
		e.Call("stopPropagation")
	}
}

func (b *binding) listen(target js.Value, name string, kind lightbox.EventKind) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		b.handle(kind, args[0])
		return nil
	})
	funcs = append(funcs, f)
	target.Call("addEventListener", name, f, map[string]any{"capture": true, "passive": false})
}

func main() {
	jsWindow = js.Global()
	jsDocument = jsWindow.Get("document")

	s := &domSurface{
		box:   jsDocument.Call("getElementById", "lightbox"),
		img:   jsDocument.Call("getElementById", "lightbox-image"),
		body:  jsDocument.Get("body"),
		title: js.Undefined(),
	}
	if s.box.IsNull() || s.img.IsNull() {
		klog.Errorf("page has no #lightbox or #lightbox-image")
		return
	}
	s.content = s.box.Call("querySelector", ".lightbox-content")
	if s.content.IsNull() {
		s.content = s.box
	}

	items := collect()
	v := lightbox.New(lightbox.DefaultConfig(), lightbox.Collect(items), s, imagePreloader{})
	v.Resize(viewport())
	b := &binding{router: lightbox.NewRouter(v), surface: s}
	klog.Infof("lightbox bound to %d gallery items", len(items))

	b.listen(jsDocument, "click", lightbox.EventClick)
	b.listen(jsDocument, "touchstart", lightbox.EventTouchStart)
	b.listen(jsDocument, "touchmove", lightbox.EventTouchMove)
	b.listen(jsDocument, "touchend", lightbox.EventTouchEnd)
	b.listen(jsDocument, "touchcancel", lightbox.EventTouchCancel)
	b.listen(jsDocument, "keydown", lightbox.EventKey)

	onResize := js.FuncOf(func(this js.Value, args []js.Value) any {
		b.router.Dispatch(lightbox.Event{Kind: lightbox.EventResize, At: time.Now(), Viewport: viewport()})
		return nil
	})
	onLoad := js.FuncOf(func(this js.Value, args []js.Value) any {
		v.ImageLoaded(lightbox.Size{W: s.img.Get("naturalWidth").Float(), H: s.img.Get("naturalHeight").Float()})
		return nil
	})
	funcs = append(funcs, onResize, onLoad)
	jsWindow.Call("addEventListener", "resize", onResize)
	s.img.Call("addEventListener", "load", onLoad)

	select {}
}
