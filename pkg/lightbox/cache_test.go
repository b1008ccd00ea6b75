package lightbox

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestCacheLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path, 12, 8)

	c := NewCache(0)
	img, err := c.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Errorf("bounds = %v", b)
	}
	if _, ok := c.Get(path); !ok {
		t.Errorf("image not cached")
	}
}

func TestCacheLoadMissing(t *testing.T) {
	c := NewCache(0)
	if _, err := c.Load(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Errorf("Load() of a missing file succeeded")
	}
	if c.Len() != 0 {
		t.Errorf("failed load was cached")
	}
}

func TestCachePreload(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(0)
	c.open = func(src string) (image.Image, error) {
		calls.Add(1)
		if src == "bad" {
			return nil, errors.New("corrupt")
		}
		return image.NewGray(image.Rect(0, 0, 1, 1)), nil
	}

	c.Preload("a")
	c.Preload("b")
	c.Preload("bad")
	c.Wait()

	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("bad"); ok {
		t.Errorf("failed preload cached")
	}

	// cached images are not decoded again
	before := calls.Load()
	c.Preload("a")
	c.Wait()
	if _, err := c.Load("b"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if calls.Load() != before {
		t.Errorf("decoded %d more times", calls.Load()-before)
	}
}

func TestCacheSharesInFlightDecode(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	c := NewCache(0)
	c.open = func(string) (image.Image, error) {
		calls.Add(1)
		<-release
		return image.NewGray(image.Rect(0, 0, 1, 1)), nil
	}

	var wg sync.WaitGroup
	started := make(chan struct{}, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			if _, err := c.Load("same"); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-started
	}
	close(release)
	wg.Wait()

	if n := calls.Load(); n < 1 || n > 4 {
		t.Errorf("decodes = %d", n)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestCacheLimit(t *testing.T) {
	c := NewCache(2)
	c.open = func(string) (image.Image, error) {
		return image.NewGray(image.Rect(0, 0, 1, 1)), nil
	}

	for _, src := range []string{"a", "b", "c"} {
		if _, err := c.Load(src); err != nil {
			t.Fatalf("load %s: %v", src, err)
		}
	}

	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Errorf("oldest image not evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Errorf("newest image missing")
	}
}

func TestViewerPreloadsIntoCache(t *testing.T) {
	dir := t.TempDir()
	items := []Item{}
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		p := filepath.Join(dir, name)
		writePNG(t, p, 4, 4)
		items = append(items, Item{Source: p, RawTitle: name})
	}

	c := NewCache(0)
	v := New(DefaultConfig(), Collect(items), nil, c)
	if err := v.Open(0); err != nil {
		t.Fatalf("open: %v", err)
	}
	c.Wait()

	for _, i := range []int{1, 3} {
		if _, ok := c.Get(items[i].Source); !ok {
			t.Errorf("neighbour %s not preloaded", items[i].Source)
		}
	}
	if _, ok := c.Get(items[2].Source); ok {
		t.Errorf("non-neighbour preloaded")
	}
}
