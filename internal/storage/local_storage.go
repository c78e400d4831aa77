package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalImageFetcher fetches captures from the filesystem. Used by the CLI
// and by deployments where captures are mounted locally.
type LocalImageFetcher struct {
	// root, when non-empty, confines refs to a directory; refs escaping
	// it are rejected.
	root string
}

// NewLocalImageFetcher creates a filesystem fetcher. An empty root allows
// absolute and relative paths anywhere.
func NewLocalImageFetcher(root string) ImageFetcher {
	return &LocalImageFetcher{root: root}
}

func (l *LocalImageFetcher) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := ref
	if l.root != "" {
		path = filepath.Join(l.root, filepath.Clean("/"+ref))
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	img, _, err := decodeImage(f)
	return img, err
}
