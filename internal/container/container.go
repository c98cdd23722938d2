package container

import (
	"fmt"
	"net/http"

	"go-skin-analyzer/internal/config"
	"go-skin-analyzer/internal/factory"
	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/internal/observer"
	"go-skin-analyzer/internal/service"
	"go-skin-analyzer/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	events          *observer.EventPublisher
	analysisService service.AnalysisService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	client, err := factory.NewConfiguredClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(observer.NewMetricsObserver())

	credentials := service.EnvCredentials{Var: cfg.KeyEnv()}
	analysisService := service.NewAnalysisService(client, credentials, events)
	handler := transport.NewHandler(analysisService, cfg)

	return &Container{
		config:          cfg,
		events:          events,
		analysisService: analysisService,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// AnalysisService returns the wired analysis service
func (c *Container) AnalysisService() service.AnalysisService {
	return c.analysisService
}
