package signature

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/otiai10/copy"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Result summarizes a signing run.
type Result struct {
	Processed []string
	Failed    map[string]error
}

// Backup copies dir to backupDir once. It returns false if a backup already exists.
func Backup(dir string, backupDir string) (bool, error) {
	if _, err := os.Stat(backupDir); err == nil {
		klog.Infof("backup %s already exists", backupDir)
		return false, nil
	}
	klog.Infof("backing up %s to %s ...", dir, backupDir)
	if err := copy.Copy(dir, backupDir); err != nil {
		return false, fmt.Errorf("copy: %w", err)
	}
	return true, nil
}

// Run signs every eligible image in c.InDir into c.OutDir. Failures on single
// images are collected in the result rather than aborting the run.
func Run(ctx context.Context, c Config) (*Result, error) {
	sig, err := LoadSignature(c.Signature)
	if err != nil {
		return nil, err
	}

	if c.BackupDir != "" {
		if _, err := Backup(c.InDir, c.BackupDir); err != nil {
			return nil, fmt.Errorf("backup: %w", err)
		}
	}

	files, err := Find(c.InDir, c.Exclude, c.OutDir, c.BackupDir)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	klog.Infof("found %d images to sign in %s", len(files), c.InDir)

	res := &Result{Processed: []string{}, Failed: map[string]error{}}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.Workers))
	for _, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := StampFile(filepath.Join(c.InDir, rel), filepath.Join(c.OutDir, rel), sig, c.Quality)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				klog.Errorf("%s: %v", rel, err)
				res.Failed[rel] = err
				return nil
			}
			res.Processed = append(res.Processed, rel)
			return nil
		})
	}

	err = g.Wait()
	slices.Sort(res.Processed)
	if err != nil {
		return res, err
	}
	klog.Infof("signed %d images, %d failed", len(res.Processed), len(res.Failed))
	return res, nil
}

// Replace copies signed images over the originals they were made from.
func Replace(c Config, signed []string) (int, error) {
	n := 0
	for _, rel := range signed {
		orig := filepath.Join(c.InDir, rel)
		if _, err := os.Stat(orig); err != nil {
			klog.Warningf("original %s is gone: %v", orig, err)
			continue
		}
		if err := copy.Copy(filepath.Join(c.OutDir, rel), orig); err != nil {
			return n, fmt.Errorf("copy: %w", err)
		}
		klog.V(1).Infof("replaced %s", orig)
		n++
	}
	return n, nil
}
