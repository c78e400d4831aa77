package storage

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return path
}

func TestLocalImageFetcher_FetchImage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "capture.png", 4, 3)

	fetcher := NewLocalImageFetcher("")
	img, err := fetcher.FetchImage(context.Background(), path)
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("Expected 4x3 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestLocalImageFetcher_MissingFile(t *testing.T) {
	fetcher := NewLocalImageFetcher("")
	_, err := fetcher.FetchImage(context.Background(), filepath.Join(t.TempDir(), "absent.png"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Expected ErrImageNotFound, got %v", err)
	}
}

func TestLocalImageFetcher_RootConfinement(t *testing.T) {
	root := t.TempDir()
	writeTestPNG(t, root, "inside.png", 2, 2)

	outside := t.TempDir()
	writeTestPNG(t, outside, "secret.png", 2, 2)

	fetcher := NewLocalImageFetcher(root)

	if _, err := fetcher.FetchImage(context.Background(), "inside.png"); err != nil {
		t.Errorf("Expected fetch inside root to succeed: %v", err)
	}

	// Traversal attempts resolve inside the root and must miss.
	escape := "../" + filepath.Base(outside) + "/secret.png"
	if _, err := fetcher.FetchImage(context.Background(), escape); err == nil {
		t.Error("Expected traversal outside root to fail")
	}
}

func TestLocalImageFetcher_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "capture.png", 2, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewLocalImageFetcher("")
	if _, err := fetcher.FetchImage(ctx, path); err == nil {
		t.Error("Expected error for canceled context")
	}
}
