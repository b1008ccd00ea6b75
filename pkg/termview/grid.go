package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/tstromberg/lightbox/pkg/lightbox"
)

var (
	gridStyle     = tcell.StyleDefault
	selectedStyle = tcell.StyleDefault.Reverse(true)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Grid is the list of titles shown while the viewer is closed.
type Grid struct {
	entries  []lightbox.ImageEntry
	selected int
	offset   int
}

// NewGrid returns a grid over entries with the first entry selected.
func NewGrid(entries []lightbox.ImageEntry) *Grid {
	return &Grid{entries: entries}
}

// Selected returns the selected index.
func (g *Grid) Selected() int {
	return g.selected
}

// Select selects entry i, clamped to the grid.
func (g *Grid) Select(i int) {
	if len(g.entries) == 0 {
		g.selected = 0
		return
	}
	g.selected = min(max(i, 0), len(g.entries)-1)
}

// Move moves the selection by delta entries.
func (g *Grid) Move(delta int) {
	g.Select(g.selected + delta)
}

// ItemAt returns the entry drawn on row y.
func (g *Grid) ItemAt(y int) (int, bool) {
	i := g.offset + y
	if y < 0 || i >= len(g.entries) {
		return 0, false
	}
	return i, true
}

// scroll keeps the selection within a window of rows lines.
func (g *Grid) scroll(rows int) {
	if rows < 1 {
		return
	}
	if g.selected < g.offset {
		g.offset = g.selected
	}
	if g.selected >= g.offset+rows {
		g.offset = g.selected - rows + 1
	}
}

// Draw renders the list above a one-line status bar.
func (g *Grid) Draw(screen tcell.Screen) {
	cols, rows := screen.Size()
	list := rows - 1
	g.scroll(list)

	width := runewidth.StringWidth(fmt.Sprint(len(g.entries)))
	for y := 0; y < list; y++ {
		style := gridStyle
		i, ok := g.ItemAt(y)
		line := ""
		if ok {
			line = fmt.Sprintf(" %*d  %s", width, i+1, g.entries[i].Title)
			if i == g.selected {
				style = selectedStyle
			}
		}
		for x := 0; x < cols; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
		drawText(screen, 0, y, runewidth.Truncate(line, cols, "…"), style)
	}

	if rows > 0 {
		status := fmt.Sprintf(" %d images  ↑/↓ select  enter open  q quit", len(g.entries))
		for x := 0; x < cols; x++ {
			screen.SetContent(x, rows-1, ' ', nil, statusStyle)
		}
		drawText(screen, 0, rows-1, runewidth.Truncate(status, cols, "…"), statusStyle)
	}
}
