package storage

import (
	"fmt"
	"image"
	"io"

	// Raster formats the capture workflow accepts. These match the
	// suffixes the capture tooling historically allowed: png, jpeg, gif
	// from the standard library, bmp, tiff and webp via x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeImage decodes any registered raster format from r, returning the
// decoded image and the format name.
func decodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}
