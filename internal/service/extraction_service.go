package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"time"

	apperrors "go-alpha-matte/internal/errors"
	"go-alpha-matte/internal/extractor"
	"go-alpha-matte/internal/observer"
	"go-alpha-matte/internal/repository"
	"go-alpha-matte/pkg/models"
	"go-alpha-matte/pkg/validation"
)

// ExtractionService turns a pair of capture references into a transparent
// PNG with summary statistics.
type ExtractionService interface {
	ExtractMatte(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error)
	ValidateRef(ref string) error
}

type extractionService struct {
	captures  repository.CapturePairRepository
	engine    *extractor.Engine
	validator *validation.CaptureValidator
	events    observer.Subject
}

// NewExtractionService creates the service. The events subject may be
// nil, in which case no events are published.
func NewExtractionService(
	captures repository.CapturePairRepository,
	engine *extractor.Engine,
	events observer.Subject,
) ExtractionService {
	return &extractionService{
		captures:  captures,
		engine:    engine,
		validator: validation.NewCaptureValidator(),
		events:    events,
	}
}

// ExtractMatte fetches both captures, runs the recovery engine, and
// encodes the matte as PNG. The output format stays lossless so the
// recovered alpha survives persistence unchanged.
func (s *extractionService) ExtractMatte(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResponse, error) {
	start := time.Now()
	s.publish(ctx, observer.ExtractionEvent{
		EventType: observer.ExtractionStarted,
		Timestamp: start,
		WhiteRef:  req.WhiteURL,
		BlackRef:  req.BlackURL,
	})

	pair, err := s.captures.FetchPair(ctx, req.WhiteURL, req.BlackURL)
	if err != nil {
		s.publishFailure(ctx, req, start, observer.CaptureFetchFailed, err)
		if errors.Is(err, repository.ErrInvalidCaptureRef) {
			return nil, apperrors.NewValidationError("invalid capture reference", err)
		}
		if errors.Is(err, repository.ErrCaptureNotFound) {
			return nil, apperrors.NewNotFoundError("capture not found", err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("capture fetch timeout", err)
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.NewNetworkError("failed to fetch captures", err)
	}
	s.publish(ctx, observer.ExtractionEvent{
		EventType: observer.CapturesFetched,
		Timestamp: time.Now(),
		WhiteRef:  req.WhiteURL,
		BlackRef:  req.BlackURL,
		Success:   true,
	})

	white := extractor.FromImage(pair.White)
	black := extractor.FromImage(pair.Black)
	warnings := s.validator.ConvertIssuesToMessages(s.validator.ValidatePair(white, black))

	matte, err := s.engine.Extract(white, black)
	if err != nil {
		s.publishFailure(ctx, req, start, observer.ExtractionFailed, err)
		var shapeErr *extractor.ShapeMismatchError
		if errors.As(err, &shapeErr) {
			return nil, apperrors.NewProcessingError("capture dimensions differ", err)
		}
		return nil, apperrors.NewInternalError("matte extraction failed", err)
	}

	stats := extractor.ComputeStats(matte)

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, matte.ToNRGBA()); err != nil {
		s.publishFailure(ctx, req, start, observer.ExtractionFailed, err)
		return nil, apperrors.NewInternalError("failed to encode matte", err)
	}

	elapsed := time.Since(start)
	s.publish(ctx, observer.ExtractionEvent{
		EventType:      observer.ExtractionCompleted,
		Timestamp:      time.Now(),
		WhiteRef:       req.WhiteURL,
		BlackRef:       req.BlackURL,
		ProcessingTime: elapsed,
		Success:        true,
		Metadata: map[string]interface{}{
			"width":     matte.W,
			"height":    matte.H,
			"coverage":  stats.Coverage,
			"png_bytes": encoded.Len(),
		},
	})

	return &models.ExtractionResponse{
		WhiteURL:          req.WhiteURL,
		BlackURL:          req.BlackURL,
		Timestamp:         start,
		ProcessingTimeSec: elapsed.Seconds(),
		Width:             matte.W,
		Height:            matte.H,
		Stats: models.MatteStats{
			MeanAlpha:           stats.MeanAlpha,
			TransparentFraction: stats.TransparentFraction,
			OpaqueFraction:      stats.OpaqueFraction,
			Coverage:            stats.Coverage,
			DominantColor:       stats.DominantColor,
		},
		Warnings: warnings,
		PNG:      encoded.Bytes(),
	}, nil
}

// ValidateRef validates a single capture reference.
func (s *extractionService) ValidateRef(ref string) error {
	return s.captures.ValidateRef(ref)
}

func (s *extractionService) publish(ctx context.Context, event observer.ExtractionEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

func (s *extractionService) publishFailure(ctx context.Context, req models.ExtractionRequest, start time.Time, eventType observer.EventType, err error) {
	s.publish(ctx, observer.ExtractionEvent{
		EventType:      eventType,
		Timestamp:      time.Now(),
		WhiteRef:       req.WhiteURL,
		BlackRef:       req.BlackURL,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
}
