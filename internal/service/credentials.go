package service

import (
	"os"
	"strings"

	apperrors "go-skin-analyzer/internal/errors"
)

// CredentialSource yields the provider API key for one invocation.
type CredentialSource interface {
	APIKey() (string, error)
}

// EnvCredentials reads the key from an environment variable on every call, so a key
// rotated in the environment is picked up without a restart.
type EnvCredentials struct {
	Var string
}

func (e EnvCredentials) APIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(e.Var))
	if key == "" {
		return "", apperrors.NewConfigurationError(e.Var+" is not set", nil)
	}
	return key, nil
}
