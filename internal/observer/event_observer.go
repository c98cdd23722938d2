package observer

import (
	"context"
	"sync"
	"time"

	"go-skin-analyzer/internal/metrics"

	"github.com/sirupsen/logrus"
)

// AnalysisEvent represents an analysis lifecycle event
type AnalysisEvent struct {
	EventType      EventType     `json:"event_type"`
	Timestamp      time.Time     `json:"timestamp"`
	RequestID      string        `json:"request_id,omitempty"`
	Provider       string        `json:"provider"`
	ProcessingTime time.Duration `json:"processing_time"`
	Result         string        `json:"result,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	AnalysisStarted   EventType = "analysis_started"
	AnalysisCompleted EventType = "analysis_completed"
	AnalysisFailed    EventType = "analysis_failed"
)

// ResultSuccess labels completed analyses; failures use the error type.
const ResultSuccess = "success"

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"request_id": event.RequestID,
		"provider":   event.Provider,
	}
	if event.ProcessingTime > 0 {
		fields["processing_time_ms"] = event.ProcessingTime.Milliseconds()
	}
	if event.Result != "" {
		fields["result"] = event.Result
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	switch event.EventType {
	case AnalysisStarted:
		o.logger.WithFields(fields).Debug("Skin analysis started")
	case AnalysisCompleted:
		o.logger.WithFields(fields).Info("Skin analysis completed")
	case AnalysisFailed:
		o.logger.WithFields(fields).Error("Skin analysis failed")
	default:
		o.logger.WithFields(fields).Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver feeds analysis events into the Prometheus collectors
type MetricsObserver struct{}

// NewMetricsObserver registers the collectors and returns the observer
func NewMetricsObserver() Observer {
	metrics.Register()
	return &MetricsObserver{}
}

// OnEvent handles analysis events by updating metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	switch event.EventType {
	case AnalysisStarted:
		metrics.InFlight.Inc()
	case AnalysisCompleted, AnalysisFailed:
		metrics.InFlight.Dec()
		metrics.AnalysesTotal.WithLabelValues(event.Provider, event.Result).Inc()
		metrics.AnalysisDurationSeconds.WithLabelValues(event.Provider, event.Result).
			Observe(event.ProcessingTime.Seconds())
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
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

// NotifyObservers delivers the event to every observer in subscription order. A
// panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event AnalysisEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
