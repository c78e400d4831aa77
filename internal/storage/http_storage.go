package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"go-alpha-matte/internal/logger"

	"github.com/sirupsen/logrus"
)

// ErrImageNotFound reports that the backend holds no capture at the
// given ref. Callers can surface it as a not-found condition instead of
// a generic fetch failure.
var ErrImageNotFound = errors.New("capture image not found")

// ImageFetcher retrieves and decodes a capture by reference. The meaning
// of ref depends on the backend: a URL for HTTP, a blob URL for Azure, a
// filesystem path for local storage.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) (image.Image, error)
}

// HTTPImageFetcher fetches captures over HTTP(S) with bounded retries.
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an HTTP capture fetcher. The transport is
// tuned for occasional single-image downloads rather than sustained
// crawling.
func NewHTTPImageFetcher() ImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes the capture at ref. Transient (5xx,
// network) failures are retried up to three attempts; 4xx responses fail
// immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/bmp, image/tiff, */*")
	req.Header.Set("User-Agent", "go-alpha-matte/1.0")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)
		if err != nil {
			lastErr = err
		}

		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil && resp != nil {
			resp.Body.Close()
			switch {
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrImageNotFound, ref)
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				// Client errors will not improve with retries.
				return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
			case resp.StatusCode >= 500:
				lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			}
			resp = nil
		}

		if attempt < 2 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}

	if resp == nil {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to fetch capture after 3 attempts: %w", lastErr)
		}
		return nil, fmt.Errorf("failed to fetch capture after 3 attempts: unknown error")
	}
	defer resp.Body.Close()

	img, format, err := decodeImage(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"ref":    ref,
		"format": format,
	}).Debug("Fetched capture")

	return img, nil
}
