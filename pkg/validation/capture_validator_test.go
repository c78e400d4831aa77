package validation

import (
	"testing"

	"go-alpha-matte/internal/extractor"
)

func filledBuffer(w, h int, r, g, b uint8) *extractor.PixelBuffer {
	buf := extractor.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.SetRGB(x, y, r, g, b)
		}
	}
	return buf
}

func hasIssue(issues []CaptureIssue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestCaptureValidator_PlausiblePair(t *testing.T) {
	validator := NewCaptureValidator()
	white := filledBuffer(8, 8, 240, 240, 240)
	black := filledBuffer(8, 8, 20, 20, 20)

	if issues := validator.ValidatePair(white, black); len(issues) != 0 {
		t.Errorf("Expected no issues for a plausible pair, got %+v", issues)
	}
}

func TestCaptureValidator_SwappedInputs(t *testing.T) {
	validator := NewCaptureValidator()
	white := filledBuffer(8, 8, 20, 20, 20)
	black := filledBuffer(8, 8, 240, 240, 240)

	issues := validator.ValidatePair(white, black)
	if !hasIssue(issues, "captures_swapped") {
		t.Errorf("Expected captures_swapped issue, got %+v", issues)
	}
}

func TestCaptureValidator_DegenerateShape(t *testing.T) {
	validator := NewCaptureValidator()
	white := filledBuffer(1, 16, 255, 255, 255)
	black := filledBuffer(1, 16, 0, 0, 0)

	issues := validator.ValidatePair(white, black)
	if !hasIssue(issues, "degenerate_shape") {
		t.Errorf("Expected degenerate_shape issue, got %+v", issues)
	}
}

func TestCaptureValidator_EmptyCaptures(t *testing.T) {
	validator := NewCaptureValidator()
	issues := validator.ValidatePair(extractor.NewPixelBuffer(0, 0), extractor.NewPixelBuffer(0, 0))
	if !hasIssue(issues, "empty_captures") {
		t.Errorf("Expected empty_captures issue, got %+v", issues)
	}
}

func TestCaptureValidator_MismatchedShapesDeferToEngine(t *testing.T) {
	validator := NewCaptureValidator()
	white := filledBuffer(2, 2, 255, 255, 255)
	black := filledBuffer(4, 4, 0, 0, 0)

	if issues := validator.ValidatePair(white, black); len(issues) != 0 {
		t.Errorf("Expected shape mismatches to be the engine's concern, got %+v", issues)
	}
}

func TestConvertIssuesToMessages(t *testing.T) {
	validator := NewCaptureValidator()
	if msgs := validator.ConvertIssuesToMessages(nil); msgs != nil {
		t.Errorf("Expected nil for no issues, got %v", msgs)
	}

	issues := []CaptureIssue{{Code: "a", Message: "first"}, {Code: "b", Message: "second"}}
	msgs := validator.ConvertIssuesToMessages(issues)
	if len(msgs) != 2 || msgs[0] != "first" || msgs[1] != "second" {
		t.Errorf("Unexpected messages: %v", msgs)
	}
}
