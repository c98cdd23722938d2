package service

import (
	"context"
	"encoding/json"
	"time"

	apperrors "go-skin-analyzer/internal/errors"
	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/internal/observer"
	"go-skin-analyzer/internal/prompt"
	"go-skin-analyzer/internal/vision"
	"go-skin-analyzer/pkg/models"
)

// Completer performs the provider call. *vision.Client implements it.
type Completer interface {
	Complete(ctx context.Context, apiKey string, in vision.Input) (string, error)
	ProviderName() string
}

// AnalysisService turns a photo into the model's skin report
type AnalysisService interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (json.RawMessage, error)
	ProviderName() string
}

type analysisService struct {
	completer   Completer
	credentials CredentialSource
	events      observer.Subject
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(completer Completer, credentials CredentialSource, events observer.Subject) AnalysisService {
	return &analysisService{
		completer:   completer,
		credentials: credentials,
		events:      events,
	}
}

func (s *analysisService) ProviderName() string {
	return s.completer.ProviderName()
}

// Analyze validates the request, calls the provider once and returns its answer as a
// JSON document. Only a missing image is a client error; everything else fails the call.
func (s *analysisService) Analyze(ctx context.Context, req models.AnalyzeRequest) (json.RawMessage, error) {
	if req.Image == "" {
		return nil, apperrors.NewValidationError(models.MissingImageMessage, nil)
	}

	start := time.Now()
	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted})

	result, err := s.analyze(ctx, req.Image)

	event := observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		ProcessingTime: time.Since(start),
		Result:         observer.ResultSuccess,
	}
	if err != nil {
		event.EventType = observer.AnalysisFailed
		event.Result = string(apperrors.TypeOf(err))
		event.ErrorMessage = err.Error()
	}
	s.publish(ctx, event)

	return result, err
}

func (s *analysisService) analyze(ctx context.Context, image string) (json.RawMessage, error) {
	apiKey, err := s.credentials.APIKey()
	if err != nil {
		return nil, err
	}

	text, err := s.completer.Complete(ctx, apiKey, vision.Input{
		Prompt:      prompt.Analysis,
		ImageBase64: image,
	})
	if err != nil {
		return nil, err
	}

	return vision.ParseAnalysis(text)
}

func (s *analysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.events == nil {
		return
	}
	event.RequestID = logger.RequestIDFrom(ctx)
	event.Provider = s.completer.ProviderName()
	s.events.NotifyObservers(ctx, event)
}
