package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "go-skin-analyzer/internal/errors"
	"go-skin-analyzer/internal/logger"

	"github.com/sirupsen/logrus"
)

const (
	maxResponseBytes = 8 << 20
	maxErrorSnippet  = 512
)

// Client performs exactly one outbound call per analysis. There is no retry: a failed
// call fails the invocation.
type Client struct {
	provider Provider
	client   *http.Client
}

// NewClient wraps provider with an HTTP client bounded by timeout.
func NewClient(provider Provider, timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &Client{
		provider: provider,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// ProviderName reports the wrapped provider's label.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Complete sends the prompt and image and returns the model's raw textual answer.
func (c *Client) Complete(ctx context.Context, apiKey string, in Input) (string, error) {
	req, err := c.provider.NewRequest(ctx, apiKey, in)
	if err != nil {
		return "", apperrors.NewInternalError("failed to build provider request", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransportError("provider request failed", redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classifyTransportError("failed to read provider response", redact(err))
	}

	logger.WithFields(logrus.Fields{
		"provider":    c.provider.Name(),
		"endpoint":    redactURL(req.URL.String()),
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Provider call finished")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.NewUpstreamError(
			fmt.Sprintf("%s returned status %d", c.provider.Name(), resp.StatusCode),
			errors.New(errorMessage(body)),
		)
	}

	text, err := c.provider.ExtractText(body)
	if err != nil {
		return "", apperrors.NewUpstreamError("unexpected provider response", err)
	}
	return text, nil
}

func classifyTransportError(message string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewTimeoutError(message, err)
	}
	return apperrors.NewUpstreamError(message, err)
}

// errorMessage prefers the {"error":{"message":...}} envelope both vendors use and falls
// back to a truncated body.
func errorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorSnippet {
		text = text[:maxErrorSnippet] + "..."
	}
	if text == "" {
		return "empty response body"
	}
	return text
}

// redact strips query strings from *url.Error so keys passed as ?key= never reach logs.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	return err
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	if u.RawQuery != "" {
		u.RawQuery = "REDACTED"
	}
	return u.String()
}
