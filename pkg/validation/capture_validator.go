package validation

import (
	"fmt"

	"go-alpha-matte/internal/extractor"
)

// CaptureIssue flags an implausible capture pair. Issues are advisory:
// the extraction still runs, but results are likely poor.
type CaptureIssue struct {
	Code    string
	Message string
}

// CaptureValidator sanity-checks a white/black capture pair before
// extraction. It never rejects a pair; shape enforcement stays with the
// engine.
type CaptureValidator struct{}

// NewCaptureValidator creates a capture validator.
func NewCaptureValidator() *CaptureValidator {
	return &CaptureValidator{}
}

// ValidatePair inspects the pair and returns any issues found. Buffers
// of different shapes yield no issues here; the engine reports that as
// its one hard error.
func (v *CaptureValidator) ValidatePair(white, black *extractor.PixelBuffer) []CaptureIssue {
	var issues []CaptureIssue

	if white.W != black.W || white.H != black.H {
		return issues
	}
	if white.W == 0 || white.H == 0 {
		issues = append(issues, CaptureIssue{
			Code:    "empty_captures",
			Message: "captures contain no pixels",
		})
		return issues
	}
	if white.W == 1 || white.H == 1 {
		issues = append(issues, CaptureIssue{
			Code:    "degenerate_shape",
			Message: fmt.Sprintf("captures are a degenerate %dx%d strip", white.W, white.H),
		})
	}

	// A subject shot over white should read at least as bright, on
	// average, as the same subject shot over black. The reverse usually
	// means the two inputs were swapped.
	wMean := meanLuminance(white)
	bMean := meanLuminance(black)
	if wMean < bMean {
		issues = append(issues, CaptureIssue{
			Code: "captures_swapped",
			Message: fmt.Sprintf(
				"white capture is darker on average than black capture (%.1f < %.1f); inputs may be swapped",
				wMean, bMean),
		})
	}

	return issues
}

// ConvertIssuesToMessages flattens issues into warning strings for
// responses and logs.
func (v *CaptureValidator) ConvertIssuesToMessages(issues []CaptureIssue) []string {
	if len(issues) == 0 {
		return nil
	}
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// meanLuminance averages Rec. 601 luma over the buffer.
func meanLuminance(b *extractor.PixelBuffer) float64 {
	n := b.W * b.H
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		o := i * 3
		sum += 0.299*float64(b.Pix[o]) + 0.587*float64(b.Pix[o+1]) + 0.114*float64(b.Pix[o+2])
	}
	return sum / float64(n)
}
