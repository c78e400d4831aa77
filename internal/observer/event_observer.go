package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ExtractionEvent describes one step of a matte extraction.
type ExtractionEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	WhiteRef       string                 `json:"white_ref"`
	BlackRef       string                 `json:"black_ref"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType names the extraction lifecycle stages.
type EventType string

const (
	// ExtractionStarted when an extraction begins
	ExtractionStarted EventType = "extraction_started"
	// ExtractionCompleted when an extraction finishes successfully
	ExtractionCompleted EventType = "extraction_completed"
	// ExtractionFailed when an extraction fails
	ExtractionFailed EventType = "extraction_failed"
	// CapturesFetched when both captures are decoded
	CapturesFetched EventType = "captures_fetched"
	// CaptureFetchFailed when fetching either capture fails
	CaptureFetchFailed EventType = "capture_fetch_failed"
)

// Observer receives extraction events.
type Observer interface {
	OnEvent(ctx context.Context, event ExtractionEvent)
	GetObserverName() string
}

// Subject publishes extraction events to subscribed observers.
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ExtractionEvent)
}

// LoggingObserver logs extraction events.
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a logging observer.
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles extraction events by logging them.
func (o *LoggingObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"white_ref":       event.WhiteRef,
		"black_ref":       event.BlackRef,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case ExtractionStarted:
		o.logger.WithFields(fields).Info("Matte extraction started")
	case ExtractionCompleted:
		o.logger.WithFields(fields).Info("Matte extraction completed")
	case ExtractionFailed:
		o.logger.WithFields(fields).Error("Matte extraction failed")
	case CapturesFetched:
		o.logger.WithFields(fields).Debug("Captures fetched successfully")
	case CaptureFetchFailed:
		o.logger.WithFields(fields).Error("Capture fetch failed")
	default:
		o.logger.WithFields(fields).Info("Extraction event occurred")
	}
}

// GetObserverName returns the observer name.
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver aggregates extraction counters.
type MetricsObserver struct {
	mu                    sync.RWMutex
	totalExtractions      int64
	successfulExtractions int64
	failedExtractions     int64
	totalProcessingTime   time.Duration
}

// NewMetricsObserver creates a metrics observer.
func NewMetricsObserver() Observer {
	return &MetricsObserver{}
}

// OnEvent handles extraction events by updating counters.
func (o *MetricsObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ExtractionStarted:
		o.totalExtractions++
	case ExtractionCompleted:
		o.successfulExtractions++
		o.totalProcessingTime += event.ProcessingTime
	case ExtractionFailed:
		o.failedExtractions++
	}
}

// GetObserverName returns the observer name.
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns a snapshot of the counters.
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulExtractions > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulExtractions)
	}

	return map[string]interface{}{
		"total_extractions":      o.totalExtractions,
		"successful_extractions": o.successfulExtractions,
		"failed_extractions":     o.failedExtractions,
		"total_processing_time":  o.totalProcessingTime,
		"avg_processing_time":    avgProcessingTime,
	}
}

// EventPublisher implements Subject.
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates an event publisher with no subscribers.
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer.
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer by name.
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers an event to all subscribers concurrently. A
// panicking observer is logged and does not take the service down.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ExtractionEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
