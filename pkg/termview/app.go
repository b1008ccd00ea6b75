package termview

import (
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/tstromberg/lightbox/pkg/lightbox"
	"k8s.io/klog/v2"
)

// wheelSpread is the half-distance between the synthetic fingers of a wheel pinch.
const wheelSpread = 50.0

// loaded is posted back to the event loop once an image has been decoded.
type loaded struct {
	src string
	img image.Image
	err error
}

// App is a terminal lightbox: a grid of titles and a full-screen viewer.
type App struct {
	screen  tcell.Screen
	c       Config
	viewer  *lightbox.Viewer
	router  *lightbox.Router
	surface *Surface
	grid    *Grid
	cache   *lightbox.Cache

	// mouseDown tracks the emulated finger while button 1 is held.
	mouseDown bool
	lastTouch lightbox.Point

	shouldQuit bool
}

// New returns an App drawing to an initialized screen.
func New(screen tcell.Screen, c Config, entries []lightbox.ImageEntry, cache *lightbox.Cache) *App {
	app := &App{
		screen: screen,
		c:      c,
		grid:   NewGrid(entries),
		cache:  cache,
	}
	app.surface = NewSurface(screen, c, app.load)
	var preload lightbox.Preloader
	if cache != nil {
		preload = cache
	}
	app.viewer = lightbox.New(c.Lightbox, entries, app.surface, preload)
	app.router = lightbox.NewRouter(app.viewer)

	cols, rows := screen.Size()
	app.viewer.Resize(c.viewport(cols, rows))
	return app
}

// Viewer returns the viewer driven by the app.
func (app *App) Viewer() *lightbox.Viewer {
	return app.viewer
}

// Run processes events until the user quits, then restores the terminal.
func (app *App) Run() {
	defer app.screen.Fini()

	app.Draw()
	for !app.shouldQuit {
		ev := app.screen.PollEvent()
		if ev == nil {
			return
		}
		if app.handleEvent(ev) {
			app.Draw()
		}
	}
}

// load decodes src in the background and posts the result to the event loop.
func (app *App) load(src string) {
	if app.cache == nil {
		return
	}
	go func() {
		img, err := app.cache.Load(src)
		if err := app.screen.PostEvent(tcell.NewEventInterrupt(loaded{src: src, img: img, err: err})); err != nil {
			klog.Warningf("post %s: %v", src, err)
		}
	}()
}

// handleEvent returns true if the screen needs redrawing.
func (app *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		app.screen.Sync()
		cols, rows := app.screen.Size()
		app.dispatch(lightbox.Event{Kind: lightbox.EventResize, At: ev.When(), Viewport: app.c.viewport(cols, rows)})
	case *tcell.EventKey:
		app.handleKey(ev)
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		l, ok := ev.Data().(loaded)
		if !ok {
			return false
		}
		if l.err != nil {
			klog.Warningf("unable to load %s: %v", l.src, l.err)
			return false
		}
		if app.surface.SetImage(l.src, l.img) {
			b := l.img.Bounds()
			app.viewer.ImageLoaded(lightbox.Size{W: float64(b.Dx()), H: float64(b.Dy())})
		}
	default:
		return false
	}
	return true
}

func (app *App) dispatch(ev lightbox.Event) lightbox.Disposition {
	wasOpen := app.viewer.IsOpen()
	d := app.router.Dispatch(ev)
	if wasOpen && !app.viewer.IsOpen() {
		app.grid.Select(app.viewer.State().Index)
	}
	klog.V(3).Infof("%s -> claimed=%v prevent=%v %s", ev.Kind, d.Claimed, d.PreventDefault, d.Outcome)
	return d
}

// keyName maps a tcell key to the DOM key name the viewer understands.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyLeft:
		return "ArrowLeft"
	case tcell.KeyRight:
		return "ArrowRight"
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'h':
			return "ArrowLeft"
		case 'l':
			return "ArrowRight"
		case 'q':
			return "Escape"
		}
	}
	return ""
}

func (app *App) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		app.shouldQuit = true
		return
	}

	if app.viewer.IsOpen() {
		if k := keyName(ev); k != "" {
			app.dispatch(lightbox.Event{Kind: lightbox.EventKey, At: ev.When(), Key: k})
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyUp:
		app.grid.Move(-1)
	case tcell.KeyDown:
		app.grid.Move(1)
	case tcell.KeyHome:
		app.grid.Select(0)
	case tcell.KeyEnd:
		app.grid.Select(app.viewer.Len() - 1)
	case tcell.KeyEnter:
		app.activate(app.grid.Selected(), ev.When())
	case tcell.KeyEscape:
		app.shouldQuit = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			app.grid.Move(-1)
		case 'j':
			app.grid.Move(1)
		case 'q':
			app.shouldQuit = true
		}
	}
}

func (app *App) activate(i int, at time.Time) {
	app.dispatch(lightbox.Event{Kind: lightbox.EventClick, Target: lightbox.TargetGrid, Item: i, At: at})
}

// handleMouse emulates a single finger with button 1 and a pinch with the wheel.
func (app *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := app.c.toPixels(x, y)
	buttons := ev.Buttons()

	if !app.viewer.IsOpen() {
		app.handleGridMouse(ev, y)
		return
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		app.wheelPinch(p, 1.1, ev.When())
	case buttons&tcell.WheelDown != 0:
		app.wheelPinch(p, 0.9, ev.When())
	case buttons&tcell.Button1 != 0 && !app.mouseDown:
		app.mouseDown = true
		app.lastTouch = p
		app.dispatch(lightbox.Event{Kind: lightbox.EventTouchStart, Target: app.surface.TargetAt(p), At: ev.When(), Touches: []lightbox.Point{p}})
	case buttons&tcell.Button1 != 0:
		if p == app.lastTouch {
			return
		}
		app.lastTouch = p
		app.dispatch(lightbox.Event{Kind: lightbox.EventTouchMove, At: ev.When(), Touches: []lightbox.Point{p}})
	case app.mouseDown:
		app.mouseDown = false
		app.dispatch(lightbox.Event{Kind: lightbox.EventTouchEnd, Target: app.surface.TargetAt(p), At: ev.When(), Changed: []lightbox.Point{p}})
	}
}

func (app *App) handleGridMouse(ev *tcell.EventMouse, y int) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.grid.Move(-1)
	case buttons&tcell.WheelDown != 0:
		app.grid.Move(1)
	case buttons&tcell.Button1 != 0 && !app.mouseDown:
		app.mouseDown = true
		if i, ok := app.grid.ItemAt(y); ok {
			app.grid.Select(i)
			app.activate(i, ev.When())
		}
	case buttons&tcell.Button1 == 0:
		app.mouseDown = false
	}
}

// wheelPinch plays a complete two-finger gesture around p that scales by ratio.
func (app *App) wheelPinch(p lightbox.Point, ratio float64, at time.Time) {
	spread := func(d float64) []lightbox.Point {
		return []lightbox.Point{{X: p.X - d, Y: p.Y}, {X: p.X + d, Y: p.Y}}
	}
	target := app.surface.TargetAt(p)
	moved := spread(wheelSpread * ratio)

	app.dispatch(lightbox.Event{Kind: lightbox.EventTouchStart, Target: target, At: at, Touches: spread(wheelSpread)})
	app.dispatch(lightbox.Event{Kind: lightbox.EventTouchMove, At: at, Touches: moved})
	app.dispatch(lightbox.Event{Kind: lightbox.EventTouchEnd, Target: target, At: at, Changed: moved[:1], Touches: moved[1:]})
}

// Draw renders whichever of the grid and the viewer is showing.
func (app *App) Draw() {
	app.screen.Clear()
	if !app.viewer.IsOpen() {
		app.grid.Draw(app.screen)
		app.screen.Show()
		return
	}

	app.surface.Draw()
	cols, rows := app.screen.Size()
	st := app.viewer.State()
	counter := fmt.Sprintf("%d/%d", st.Index+1, app.viewer.Len())
	if st.Scale != 1 {
		counter = fmt.Sprintf("%.0f%% %s", st.Scale*100, counter)
	}
	if w := runewidth.StringWidth(counter); rows > 0 && w < cols {
		drawText(app.screen, cols-w-1, rows-1, counter, statusStyle)
	}
	app.screen.Show()
}
