package repository

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"

	"go-alpha-matte/internal/storage"
)

// stubFetcher returns canned images or errors keyed by ref.
type stubFetcher struct {
	mu     sync.Mutex
	images map[string]image.Image
	errs   map[string]error
	calls  []string
}

func (s *stubFetcher) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ref)
	s.mu.Unlock()

	if err, ok := s.errs[ref]; ok {
		return nil, err
	}
	if img, ok := s.images[ref]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("unexpected ref %q", ref)
}

func TestFetchPair_FetchesBothCaptures(t *testing.T) {
	white := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	black := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	fetcher := &stubFetcher{images: map[string]image.Image{
		"white.png": white,
		"black.png": black,
	}}

	repo := NewCapturePairRepository(fetcher, nil)
	pair, err := repo.FetchPair(context.Background(), "white.png", "black.png")
	if err != nil {
		t.Fatalf("FetchPair failed: %v", err)
	}
	if pair.White != white || pair.Black != black {
		t.Error("Captures assigned to wrong roles")
	}
	if len(fetcher.calls) != 2 {
		t.Errorf("Expected 2 fetches, got %d", len(fetcher.calls))
	}
}

func TestFetchPair_PropagatesFetchError(t *testing.T) {
	boom := errors.New("backend unavailable")
	fetcher := &stubFetcher{
		images: map[string]image.Image{"white.png": image.NewNRGBA(image.Rect(0, 0, 1, 1))},
		errs:   map[string]error{"black.png": boom},
	}

	repo := NewCapturePairRepository(fetcher, nil)
	_, err := repo.FetchPair(context.Background(), "white.png", "black.png")
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped backend error, got %v", err)
	}
}

func TestFetchPair_MapsMissingCaptureToNotFound(t *testing.T) {
	fetcher := &stubFetcher{
		images: map[string]image.Image{"white.png": image.NewNRGBA(image.Rect(0, 0, 1, 1))},
		errs:   map[string]error{"black.png": fmt.Errorf("%w: black.png", storage.ErrImageNotFound)},
	}

	repo := NewCapturePairRepository(fetcher, nil)
	_, err := repo.FetchPair(context.Background(), "white.png", "black.png")
	if !errors.Is(err, ErrCaptureNotFound) {
		t.Fatalf("Expected ErrCaptureNotFound, got %v", err)
	}
}

func TestFetchPair_RejectsEmptyRefs(t *testing.T) {
	repo := NewCapturePairRepository(&stubFetcher{}, nil)

	if _, err := repo.FetchPair(context.Background(), "", "black.png"); !errors.Is(err, ErrInvalidCaptureRef) {
		t.Errorf("Expected ErrInvalidCaptureRef for empty white ref, got %v", err)
	}
	if _, err := repo.FetchPair(context.Background(), "white.png", ""); !errors.Is(err, ErrInvalidCaptureRef) {
		t.Errorf("Expected ErrInvalidCaptureRef for empty black ref, got %v", err)
	}
}

func TestFetchPair_UsesRefValidator(t *testing.T) {
	rejected := errors.New("scheme not allowed")
	repo := NewCapturePairRepository(&stubFetcher{}, func(ref string) error {
		if ref == "ftp://capture" {
			return rejected
		}
		return nil
	})

	if err := repo.ValidateRef("ftp://capture"); !errors.Is(err, rejected) {
		t.Errorf("Expected validator rejection, got %v", err)
	}
	if err := repo.ValidateRef("https://capture"); err != nil {
		t.Errorf("Expected acceptance, got %v", err)
	}
}
