package validation

import (
	"net/url"
	"strings"

	apperrors "go-skin-analyzer/internal/errors"
)

// EndpointValidator checks provider base URLs before any request is built from them.
type EndpointValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewEndpointValidator accepts http and https endpoints on any host
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewEndpointValidatorWithOptions creates a validator with custom options
func NewEndpointValidatorWithOptions(schemes []string, hosts []string) *EndpointValidator {
	return &EndpointValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateBaseURL reports whether raw can be used as a provider base URL. Paths are
// appended to it, so a query string or fragment is rejected.
func (v *EndpointValidator) ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return apperrors.NewConfigurationError("base URL cannot be empty", nil)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return apperrors.NewConfigurationError("invalid base URL format", err)
	}

	if !contains(v.allowedSchemes, parsed.Scheme) {
		return apperrors.NewConfigurationError("base URL scheme not allowed: "+parsed.Scheme, nil)
	}

	if parsed.Host == "" {
		return apperrors.NewConfigurationError("base URL must have a host", nil)
	}

	if len(v.allowedHosts) > 0 && !contains(v.allowedHosts, parsed.Hostname()) {
		return apperrors.NewConfigurationError("base URL host not allowed: "+parsed.Hostname(), nil)
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return apperrors.NewConfigurationError("base URL must not carry a query or fragment", nil)
	}

	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
