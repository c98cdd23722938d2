package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"go-skin-analyzer/pkg/validation"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ProviderTimeout    time.Duration
	MaxRequestBodySize int64
	LogLevel           string

	Provider string
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
}

type OpenAIConfig struct {
	BaseURL   string
	Model     string
	MaxTokens int
	KeyEnv    string
}

type GeminiConfig struct {
	BaseURL         string
	Model           string
	MaxOutputTokens int
	Temperature     float64
	KeyEnv          string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and the process environment, in increasing order of precedence.
func LoadFromEnv() (*Config, error) {
	src := source{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		values, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		src.file = values
	}

	cfg := &Config{
		Host:               src.stringOrDefault("HOST", "0.0.0.0"),
		Port:               src.stringOrDefault("PORT", "8080"),
		RequestTimeout:     src.durationOrDefault("REQUEST_TIMEOUT", 90*time.Second),
		ProviderTimeout:    src.durationOrDefault("PROVIDER_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: src.int64OrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB, base64 inflates ~4/3
		LogLevel:           src.stringOrDefault("LOG_LEVEL", "info"),
		Provider:           strings.ToLower(src.stringOrDefault("VISION_PROVIDER", ProviderOpenAI)),
		OpenAI: OpenAIConfig{
			BaseURL:   src.stringOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:     src.stringOrDefault("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: int(src.int64OrDefault("OPENAI_MAX_TOKENS", 1000)),
			KeyEnv:    "OPENAI_API_KEY",
		},
		Gemini: GeminiConfig{
			BaseURL:         src.stringOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:           src.stringOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
			MaxOutputTokens: int(src.int64OrDefault("GEMINI_MAX_OUTPUT_TOKENS", 1000)),
			Temperature:     src.floatOrDefault("GEMINI_TEMPERATURE", 0.4),
			KeyEnv:          "GEMINI_API_KEY",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ProviderTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, provider=%s)",
			c.RequestTimeout, c.ProviderTimeout)
	}
	endpoints := validation.NewEndpointValidator()
	switch c.Provider {
	case ProviderOpenAI:
		if err := endpoints.ValidateBaseURL(c.OpenAI.BaseURL); err != nil {
			return fmt.Errorf("invalid OPENAI_BASE_URL: %w", err)
		}
		if c.OpenAI.MaxTokens <= 0 {
			return fmt.Errorf("OPENAI_MAX_TOKENS must be > 0 (got %d)", c.OpenAI.MaxTokens)
		}
	case ProviderGemini:
		if err := endpoints.ValidateBaseURL(c.Gemini.BaseURL); err != nil {
			return fmt.Errorf("invalid GEMINI_BASE_URL: %w", err)
		}
		if c.Gemini.MaxOutputTokens <= 0 {
			return fmt.Errorf("GEMINI_MAX_OUTPUT_TOKENS must be > 0 (got %d)", c.Gemini.MaxOutputTokens)
		}
		if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
			return fmt.Errorf("GEMINI_TEMPERATURE must be within [0, 2] (got %g)", c.Gemini.Temperature)
		}
	default:
		return fmt.Errorf("unsupported VISION_PROVIDER: %q", c.Provider)
	}
	return nil
}

// KeyEnv names the environment variable holding the active provider's API key.
func (c *Config) KeyEnv() string {
	if c.Provider == ProviderGemini {
		return c.Gemini.KeyEnv
	}
	return c.OpenAI.KeyEnv
}

func loadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

// source resolves a key from the environment first, then from the config file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(s.file[key])
}

func (s source) stringOrDefault(key, defaultValue string) string {
	if value := s.lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func (s source) durationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := s.lookup(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func (s source) int64OrDefault(key string, defaultValue int64) int64 {
	if value := s.lookup(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) floatOrDefault(key string, defaultValue float64) float64 {
	if value := s.lookup(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
