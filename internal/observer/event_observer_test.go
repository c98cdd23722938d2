package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-skin-analyzer/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

type recordingObserver struct {
	name   string
	mu     sync.Mutex
	events []AnalysisEvent
}

func (o *recordingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return o.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event AnalysisEvent) { panic("boom") }

func (panickingObserver) GetObserverName() string { return "panicking" }

func TestEventPublisher_NotifyAndUnsubscribe(t *testing.T) {
	p := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	p.Subscribe(first)
	p.Subscribe(panickingObserver{})
	p.Subscribe(second)

	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted, Provider: "openai"})

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("Expected both observers to receive the event despite a panic, got %d and %d",
			len(first.events), len(second.events))
	}
	if first.events[0].Timestamp.IsZero() {
		t.Error("Expected publisher to stamp the event")
	}

	p.Unsubscribe(first)
	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisCompleted})

	if len(first.events) != 1 {
		t.Errorf("Expected unsubscribed observer to receive nothing more, got %d events", len(first.events))
	}
	if len(second.events) != 2 {
		t.Errorf("Expected second observer to receive 2 events, got %d", len(second.events))
	}
}

func TestLoggingObserver_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	NewLoggingObserver(l).OnEvent(context.Background(), AnalysisEvent{
		EventType:      AnalysisFailed,
		RequestID:      "req-1",
		Provider:       "gemini",
		ProcessingTime: 1500 * time.Millisecond,
		Result:         "upstream",
		ErrorMessage:   "status 500",
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q", buf.String())
	}
	if entry["level"] != "error" {
		t.Errorf("Expected error level, got %v", entry["level"])
	}
	if entry["request_id"] != "req-1" || entry["provider"] != "gemini" || entry["result"] != "upstream" {
		t.Errorf("Missing fields in log entry: %v", entry)
	}
	if entry["processing_time_ms"] != float64(1500) {
		t.Errorf("Expected processing_time_ms 1500, got %v", entry["processing_time_ms"])
	}
}

func TestMetricsObserver_Counts(t *testing.T) {
	o := NewMetricsObserver()
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues("test-provider", ResultSuccess))
	inFlight := testutil.ToFloat64(metrics.InFlight)

	o.OnEvent(ctx, AnalysisEvent{EventType: AnalysisStarted, Provider: "test-provider"})
	if got := testutil.ToFloat64(metrics.InFlight); got != inFlight+1 {
		t.Errorf("Expected in-flight %v, got %v", inFlight+1, got)
	}

	o.OnEvent(ctx, AnalysisEvent{
		EventType:      AnalysisCompleted,
		Provider:       "test-provider",
		Result:         ResultSuccess,
		ProcessingTime: time.Second,
	})

	if got := testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues("test-provider", ResultSuccess)); got != before+1 {
		t.Errorf("Expected counter %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(metrics.InFlight); got != inFlight {
		t.Errorf("Expected in-flight back to %v, got %v", inFlight, got)
	}
}
