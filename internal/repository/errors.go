package repository

import "errors"

var (
	// ErrInvalidCaptureRef indicates an unusable capture reference.
	ErrInvalidCaptureRef = errors.New("invalid capture reference")

	// ErrCaptureNotFound indicates the capture could not be located.
	ErrCaptureNotFound = errors.New("capture not found")
)
