package validation

import (
	"testing"

	apperrors "go-alpha-matte/internal/errors"
)

func TestURLValidator_ValidateCaptureURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		expectFail bool
	}{
		{"valid https URL", "https://example.com/white.png", false},
		{"valid http URL", "http://example.com/black.png", false},
		{"empty URL", "", true},
		{"whitespace URL", "   ", true},
		{"missing scheme", "example.com/capture.png", true},
		{"disallowed scheme", "ftp://example.com/capture.png", true},
		{"missing host", "https:///capture.png", true},
	}

	validator := NewURLValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateCaptureURL(tt.url)
			if tt.expectFail && err == nil {
				t.Errorf("Expected %q to fail validation", tt.url)
			}
			if !tt.expectFail && err != nil {
				t.Errorf("Expected %q to pass validation, got %v", tt.url, err)
			}
			if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error type, got %v", err)
			}
		})
	}
}

func TestURLValidator_HostAllowlist(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"captures.internal"})

	if err := validator.ValidateCaptureURL("https://captures.internal/white.png"); err != nil {
		t.Errorf("Expected allowlisted host to pass, got %v", err)
	}
	if err := validator.ValidateCaptureURL("https://elsewhere.com/white.png"); err == nil {
		t.Error("Expected non-allowlisted host to fail")
	}
	if err := validator.ValidateCaptureURL("http://captures.internal/white.png"); err == nil {
		t.Error("Expected non-allowlisted scheme to fail")
	}
}
