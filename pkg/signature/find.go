package signature

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Excluded reports whether a file's stem contains one of the excluded words.
func Excluded(path string, exclude []string) bool {
	base := filepath.Base(path)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	for _, w := range exclude {
		if w != "" && strings.Contains(stem, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// IsJPEG reports whether path has a JPEG extension.
func IsJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// Find returns the JPEGs below dir that should be signed, relative to dir.
// Directories listed in skip are not descended into.
func Find(dir string, exclude []string, skip ...string) ([]string, error) {
	skipped := map[string]bool{}
	for _, s := range skip {
		if s == "" {
			continue
		}
		abs, err := filepath.Abs(s)
		if err == nil {
			skipped[abs] = true
		}
	}

	found := []string{}
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
					klog.V(1).Infof("skipping %s", path)
					return godirwalk.SkipThis
				}
				return nil
			}
			if !IsJPEG(path) {
				return nil
			}
			if Excluded(path, exclude) {
				klog.Infof("excluding %s", path)
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return fmt.Errorf("rel: %w", err)
			}
			found = append(found, rel)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return found, nil
}
