package factory

import (
	"fmt"

	"go-skin-analyzer/internal/config"
	"go-skin-analyzer/internal/vision"
)

// ProviderType represents the supported vision providers
type ProviderType string

const (
	// OpenAIProvider uses chat completions with an inline data URL
	OpenAIProvider ProviderType = config.ProviderOpenAI
	// GeminiProvider uses generateContent with inline data parts
	GeminiProvider ProviderType = config.ProviderGemini
)

// ProviderFactory creates vision providers
type ProviderFactory interface {
	CreateProvider(providerType ProviderType) (vision.Provider, error)
}

type providerFactory struct {
	cfg *config.Config
}

// NewProviderFactory creates a factory reading model settings from cfg
func NewProviderFactory(cfg *config.Config) ProviderFactory {
	return &providerFactory{cfg: cfg}
}

// CreateProvider creates a provider based on the specified type
func (f *providerFactory) CreateProvider(providerType ProviderType) (vision.Provider, error) {
	switch providerType {
	case OpenAIProvider:
		c := f.cfg.OpenAI
		return vision.NewOpenAIProvider(c.BaseURL, c.Model, c.MaxTokens), nil
	case GeminiProvider:
		c := f.cfg.Gemini
		return vision.NewGeminiProvider(c.BaseURL, c.Model, c.MaxOutputTokens, c.Temperature), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// NewConfiguredClient builds the outbound client for the provider selected in cfg.
func NewConfiguredClient(cfg *config.Config) (*vision.Client, error) {
	provider, err := NewProviderFactory(cfg).CreateProvider(ProviderType(cfg.Provider))
	if err != nil {
		return nil, err
	}
	return vision.NewClient(provider, cfg.ProviderTimeout), nil
}
