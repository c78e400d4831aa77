package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// minimal valid 1x1 transparent PNG
var tinyPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

func TestHTTPImageFetcher_RetryLogic(t *testing.T) {
	tests := []struct {
		name          string
		responses     []int // status codes returned in sequence
		expectCalls   int
		expectError   bool
		errorContains string
	}{
		{
			name:        "success on first attempt",
			responses:   []int{200},
			expectCalls: 1,
		},
		{
			name:        "success on second attempt after 5xx",
			responses:   []int{500, 200},
			expectCalls: 2,
		},
		{
			name:          "4xx client error is not retried",
			responses:     []int{403},
			expectCalls:   1,
			expectError:   true,
			errorContains: "client error: status code 403",
		},
		{
			name:          "4xx after 5xx stops retrying",
			responses:     []int{500, 403},
			expectCalls:   2,
			expectError:   true,
			errorContains: "client error: status code 403",
		},
		{
			name:          "all 5xx exhausts attempts",
			responses:     []int{500, 502, 503},
			expectCalls:   3,
			expectError:   true,
			errorContains: "server error: status code 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				statusCode := tt.responses[len(tt.responses)-1]
				if requestCount < len(tt.responses) {
					statusCode = tt.responses[requestCount]
				}
				requestCount++

				if statusCode == http.StatusOK {
					w.Header().Set("Content-Type", "image/png")
					w.Write(tinyPNG)
					return
				}
				w.WriteHeader(statusCode)
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher()
			img, err := fetcher.FetchImage(context.Background(), server.URL)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error containing %q, got %q", tt.errorContains, err.Error())
				}
			} else {
				if err != nil {
					t.Fatalf("Expected success, got error: %v", err)
				}
				if img == nil {
					t.Fatal("Expected decoded image")
				}
			}
			if requestCount != tt.expectCalls {
				t.Errorf("Expected %d requests, got %d", tt.expectCalls, requestCount)
			}
		})
	}
}

func TestHTTPImageFetcher_NotFound(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher()
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for missing capture")
	}
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Expected ErrImageNotFound, got %v", err)
	}
	if requestCount != 1 {
		t.Errorf("Expected no retries on 404, got %d requests", requestCount)
	}
}

func TestHTTPImageFetcher_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("this is not an image"))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher()
	if _, err := fetcher.FetchImage(context.Background(), server.URL); err == nil {
		t.Error("Expected decode error for non-image body")
	}
}

func TestHTTPImageFetcher_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPImageFetcher()
	if _, err := fetcher.FetchImage(ctx, server.URL); err == nil {
		t.Error("Expected error for canceled context")
	}
}
