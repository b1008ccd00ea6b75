package lightbox

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Extensions are the file extensions Find treats as images.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func isImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// headline returns the IPTC headline of an image, if exiftool knows one.
func headline(et *exiftool.Exiftool, path string) string {
	if et == nil {
		return ""
	}
	fis := et.ExtractMetadata(path)
	if len(fis) == 0 || fis[0].Err != nil {
		return ""
	}
	h, err := fis[0].GetString("Headline")
	if err != nil {
		klog.V(2).Infof("no headline for %s: %v", path, err)
		return ""
	}
	return h
}

// Find walks root and returns one grid item per image, in lexical order.
//
// The raw title is the image headline when exiftool is installed, otherwise the file name.
func Find(root string) ([]Item, error) {
	found := []Item{}

	et, err := exiftool.NewExiftool()
	if err != nil {
		klog.Warningf("exiftool unavailable, titles come from file names: %v", err)
		et = nil
	} else {
		defer et.Close()
	}

	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && filepath.Base(path)[0] == '.' {
				return godirwalk.SkipThis
			}
			if de.IsDir() || !isImage(path) {
				return nil
			}

			klog.V(1).Infof("found %s", path)
			title := headline(et, path)
			if title == "" {
				title = filepath.Base(path)
			}
			found = append(found, Item{Source: path, RawTitle: title})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return found, nil
}
