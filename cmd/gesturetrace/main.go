package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/tstromberg/lightbox/pkg/lightbox"
	"k8s.io/klog/v2"
)

var calls = flag.Bool("calls", false, "also print every call made on the rendering surface")

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if flag.NArg() == 0 {
		klog.Exitf("usage: gesturetrace [flags] <trace.yaml>...")
	}

	for _, path := range flag.Args() {
		t, err := lightbox.LoadTrace(path)
		if err != nil {
			klog.Exitf("load %s: %v", path, err)
		}

		name := t.Name
		if name == "" {
			name = filepath.Base(path)
		}
		fmt.Printf("== %s (%d images)\n", name, t.Images)

		steps, rec, err := lightbox.Replay(t)
		for _, s := range steps {
			fmt.Println(s)
		}
		if err != nil {
			klog.Exitf("replay %s: %v", path, err)
		}

		if *calls {
			fmt.Println("-- surface calls")
			for _, c := range rec.Calls {
				fmt.Printf("   %s\n", c)
			}
			fmt.Printf("-- preloaded: %v\n", rec.Preloaded)
		}
		fmt.Println()
	}
}
