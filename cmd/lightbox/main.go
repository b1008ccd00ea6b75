package main

import (
	"flag"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/tstromberg/lightbox/pkg/lightbox"
	"github.com/tstromberg/lightbox/pkg/termview"
	"k8s.io/klog/v2"
)

var (
	inDir      = flag.String("in", ".", "directory of images to show")
	start      = flag.Int("open", -1, "open the viewer at this image index")
	cacheLimit = flag.Int("cache", 16, "number of decoded images to keep in memory")
	cellWidth  = flag.Float64("cell-width", 8, "pixel width of a terminal cell")
	cellHeight = flag.Float64("cell-height", 16, "pixel height of a terminal cell")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	items, err := lightbox.Find(*inDir)
	if err != nil {
		klog.Exitf("find failed: %v", err)
	}
	entries := lightbox.Collect(items)
	if len(entries) == 0 {
		klog.Exitf("no images found in %s", *inDir)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		klog.Exitf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		klog.Exitf("screen init: %v", err)
	}
	screen.EnableMouse()

	c := termview.DefaultConfig()
	c.CellWidth = *cellWidth
	c.CellHeight = *cellHeight

	app := termview.New(screen, c, entries, lightbox.NewCache(*cacheLimit))
	if *start >= 0 {
		if err := app.Viewer().Open(*start); err != nil {
			screen.Fini()
			klog.Exitf("open %d: %v", *start, err)
		}
	}
	app.Run()

	fmt.Printf("viewed %d images from %s\n", len(entries), *inDir)
}
