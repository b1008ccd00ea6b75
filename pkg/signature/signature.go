// Package signature stamps an artist signature onto gallery images.
package signature

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"git.sr.ht/~sbinet/gg"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// DefaultExclude lists words that mark a file as site furniture rather than artwork.
var DefaultExclude = []string{"avatar", "brush", "qr", "tel", "social"}

// Config is the configuration for a signing run.
type Config struct {
	InDir  string
	OutDir string
	// Signature is a PNG, ideally with a transparent background.
	Signature string
	// BackupDir receives a one-time copy of InDir. Empty disables backups.
	BackupDir string
	Exclude   []string
	Quality   int
	Workers   int
}

// DefaultConfig returns the configuration used by cmd/signature.
func DefaultConfig() Config {
	return Config{
		InDir:     "assets/images",
		OutDir:    "assets/images_signed",
		Signature: "artist_signature.png",
		BackupDir: "assets/images_backup",
		Exclude:   DefaultExclude,
		Quality:   95,
		Workers:   runtime.NumCPU(),
	}
}

// Placement returns where a signature goes on a w x h image: 15% of the width
// (at least 100px) at a 3:1 ratio, in the bottom-left corner with a 2% margin.
func Placement(w, h int) image.Rectangle {
	sw := max(100, int(float64(w)*0.15))
	sh := int(float64(sw) * 0.33)

	x := int(float64(w) * 0.02)
	y := h - sh - int(float64(h)*0.02)
	return image.Rect(x, y, x+sw, y+sh)
}

// Stamp returns a copy of img with sig drawn over it.
func Stamp(img image.Image, sig image.Image) image.Image {
	b := img.Bounds()
	r := Placement(b.Dx(), b.Dy())
	scaled := transform.Resize(sig, r.Dx(), r.Dy(), transform.Lanczos)

	dc := gg.NewContextForImage(img)
	dc.DrawImage(scaled, r.Min.X, r.Min.Y)
	return dc.Image()
}

// LoadSignature reads the signature image.
func LoadSignature(path string) (image.Image, error) {
	sig, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signature: %w", err)
	}
	if b := sig.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("signature %s is empty", path)
	}
	return sig, nil
}

// StampFile signs the image at in and saves it as a JPEG at out.
func StampFile(in string, out string, sig image.Image, quality int) error {
	klog.V(1).Infof("stamping %s -> %s", in, out)
	img, err := imgio.Open(in)
	if err != nil {
		return fmt.Errorf("imgio.Open: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if err := imgio.Save(out, Stamp(img, sig), imgio.JPEGEncoder(quality)); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
