package repository

import (
	"context"
	"errors"
	"fmt"

	"go-alpha-matte/internal/storage"

	"golang.org/x/sync/errgroup"
)

// RefValidator validates a capture reference for a given backend. Remote
// backends use a URL validator; the local backend accepts any non-empty
// path.
type RefValidator func(ref string) error

// fetcherPairRepository implements CapturePairRepository over any
// storage.ImageFetcher.
type fetcherPairRepository struct {
	fetcher  storage.ImageFetcher
	validate RefValidator
}

// NewCapturePairRepository creates a repository backed by the given
// fetcher. A nil validator only rejects empty references.
func NewCapturePairRepository(fetcher storage.ImageFetcher, validate RefValidator) CapturePairRepository {
	return &fetcherPairRepository{
		fetcher:  fetcher,
		validate: validate,
	}
}

// FetchPair retrieves both captures concurrently. The first failure
// cancels the sibling fetch.
func (r *fetcherPairRepository) FetchPair(ctx context.Context, whiteRef, blackRef string) (*CapturePair, error) {
	if err := r.ValidateRef(whiteRef); err != nil {
		return nil, err
	}
	if err := r.ValidateRef(blackRef); err != nil {
		return nil, err
	}

	pair := &CapturePair{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := r.fetcher.FetchImage(gctx, whiteRef)
		if err != nil {
			return fmt.Errorf("white capture %q: %w", whiteRef, err)
		}
		pair.White = img
		return nil
	})
	g.Go(func() error {
		img, err := r.fetcher.FetchImage(gctx, blackRef)
		if err != nil {
			return fmt.Errorf("black capture %q: %w", blackRef, err)
		}
		pair.Black = img
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, storage.ErrImageNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrCaptureNotFound, err)
		}
		return nil, err
	}
	return pair, nil
}

// ValidateRef checks a single capture reference.
func (r *fetcherPairRepository) ValidateRef(ref string) error {
	if ref == "" {
		return ErrInvalidCaptureRef
	}
	if r.validate != nil {
		return r.validate(ref)
	}
	return nil
}
