package repository

import (
	"context"
	"image"
)

// CapturePair holds the two decoded observations of one subject.
type CapturePair struct {
	White image.Image
	Black image.Image
}

// CapturePairRepository defines data access for capture pairs.
type CapturePairRepository interface {
	// FetchPair retrieves and decodes both captures.
	FetchPair(ctx context.Context, whiteRef, blackRef string) (*CapturePair, error)

	// ValidateRef checks whether a capture reference is acceptable for
	// this repository's backend.
	ValidateRef(ref string) error
}
