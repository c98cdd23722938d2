package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GeminiProvider calls generateContent with the key in the query string.
type GeminiProvider struct {
	baseURL         string
	model           string
	maxOutputTokens int
	temperature     float64
}

func NewGeminiProvider(baseURL, model string, maxOutputTokens int, temperature float64) *GeminiProvider {
	return &GeminiProvider{
		baseURL:         strings.TrimRight(baseURL, "/"),
		model:           model,
		maxOutputTokens: maxOutputTokens,
		temperature:     temperature,
	}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) endpoint(apiKey string) string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(apiKey))
}

func (p *GeminiProvider) NewRequest(ctx context.Context, apiKey string, in Input) (*http.Request, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: in.Prompt},
					{InlineData: &geminiInlineData{MimeType: ImageMimeType, Data: in.ImageBase64}},
				},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: p.maxOutputTokens,
			Temperature:     p.temperature,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(apiKey), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (p *GeminiProvider) ExtractText(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		if reason := resp.PromptFeedback.BlockReason; reason != "" {
			return "", fmt.Errorf("prompt blocked: %s", reason)
		}
		return "", errors.New("no candidates in response")
	}

	// first text part wins
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("no text part in response (finishReason=%q)", resp.Candidates[0].FinishReason)
}
