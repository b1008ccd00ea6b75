package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tstromberg/lightbox/pkg/signature"
	"k8s.io/klog/v2"
)

var (
	def = signature.DefaultConfig()

	inDir     = flag.String("in", def.InDir, "directory of images to sign")
	outDir    = flag.String("out", def.OutDir, "directory to write signed images to")
	sigPath   = flag.String("signature", def.Signature, "signature image (PNG with transparency)")
	backupDir = flag.String("backup", def.BackupDir, "one-time backup of the input directory")
	noBackup  = flag.Bool("no-backup", false, "do not back up the input directory")
	exclude   = flag.String("exclude", strings.Join(def.Exclude, ","), "comma-separated words marking files to skip")
	quality   = flag.Int("quality", def.Quality, "JPEG quality of signed images")
	workers   = flag.Int("workers", def.Workers, "number of images to sign in parallel")
	replace   = flag.Bool("replace", false, "copy signed images over the originals")
	watchFlag = flag.Bool("watch", false, "watch the input directory and sign new images")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c := signature.Config{
		InDir:     *inDir,
		OutDir:    *outDir,
		Signature: *sigPath,
		BackupDir: *backupDir,
		Exclude:   strings.Split(*exclude, ","),
		Quality:   *quality,
		Workers:   *workers,
	}
	if *noBackup {
		c.BackupDir = ""
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := signature.Run(ctx, c)
	if err != nil {
		klog.Exitf("sign failed: %v", err)
	}

	fmt.Printf("signed %d images into %s\n", len(res.Processed), c.OutDir)
	for rel, err := range res.Failed {
		fmt.Printf("  failed: %s: %v\n", rel, err)
	}

	if *replace {
		n, err := signature.Replace(c, res.Processed)
		if err != nil {
			klog.Exitf("replace failed: %v", err)
		}
		fmt.Printf("replaced %d originals", n)
		if c.BackupDir != "" {
			fmt.Printf(" (backup in %s)", c.BackupDir)
		}
		fmt.Println()
	}

	if *watchFlag {
		if err := watch(ctx, c); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
	}
}

// watch signs images as they appear in the input directory.
func watch(ctx context.Context, c signature.Config) error {
	sig, err := signature.LoadSignature(c.Signature)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(c.InDir); err != nil {
		return fmt.Errorf("add %s: %w", c.InDir, err)
	}
	klog.Infof("watching %s ...", c.InDir)

	// writers emit several events per file; sign once things settle
	const settle = 500 * time.Millisecond
	pending := map[string]time.Time{}
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !signature.IsJPEG(event.Name) || signature.Excluded(event.Name, c.Exclude) {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		case now := <-tick.C:
			for path, seen := range pending {
				if now.Sub(seen) < settle {
					continue
				}
				delete(pending, path)
				out := filepath.Join(c.OutDir, filepath.Base(path))
				if err := signature.StampFile(path, out, sig, c.Quality); err != nil {
					klog.Errorf("%s: %v", path, err)
					continue
				}
				klog.Infof("signed %s", out)
			}
		}
	}
}
