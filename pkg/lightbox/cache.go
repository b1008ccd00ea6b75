package lightbox

import (
	"fmt"
	"image"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
	"k8s.io/klog/v2"
)

// Cache holds decoded images keyed by source path. It is safe for concurrent use.
//
// Preloads are never cancelled: a preload finishing after the viewer moved on
// only leaves an extra entry behind.
type Cache struct {
	limit int
	open  func(string) (image.Image, error)

	mu     sync.Mutex
	images map[string]image.Image
	order  []string

	group singleflight.Group
	wg    sync.WaitGroup
}

// NewCache returns a cache holding at most limit images, or any number if limit is 0.
func NewCache(limit int) *Cache {
	return &Cache{
		limit:  limit,
		open:   imgio.Open,
		images: map[string]image.Image{},
	}
}

// Get returns a cached image.
func (c *Cache) Get(src string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.images[src]
	return img, ok
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// Load returns the decoded image at src, reading it at most once for concurrent callers.
func (c *Cache) Load(src string) (image.Image, error) {
	if img, ok := c.Get(src); ok {
		return img, nil
	}

	v, err, shared := c.group.Do(src, func() (any, error) {
		klog.V(1).Infof("decoding %s", src)
		img, err := c.open(src)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		c.put(src, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		klog.V(2).Infof("shared decode of %s", src)
	}
	return v.(image.Image), nil
}

// Preload decodes src in the background.
func (c *Cache) Preload(src string) {
	if _, ok := c.Get(src); ok {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if _, err := c.Load(src); err != nil {
			klog.Warningf("preload %s: %v", src, err)
		}
	}()
}

// Wait blocks until all preloads started so far have finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) put(src string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.images[src]; !ok {
		c.order = append(c.order, src)
	}
	c.images[src] = img

	for c.limit > 0 && len(c.order) > c.limit {
		klog.V(2).Infof("evicting %s", c.order[0])
		delete(c.images, c.order[0])
		c.order = c.order[1:]
	}
}
