package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type openAIChatRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// OpenAIProvider calls the chat completions endpoint with the photo inlined as a data URL.
type OpenAIProvider struct {
	baseURL   string
	model     string
	maxTokens int
}

func NewOpenAIProvider(baseURL, model string, maxTokens int) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) NewRequest(ctx context.Context, apiKey string, in Input) (*http.Request, error) {
	body := openAIChatRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []openAIMessage{
			{
				Role: "user",
				Content: []openAIContentPart{
					{Type: "text", Text: in.Prompt},
					{
						Type: "image_url",
						ImageURL: &openAIImageURL{
							URL:    "data:" + ImageMimeType + ";base64," + in.ImageBase64,
							Detail: "high",
						},
					},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	return req, nil
}

func (p *OpenAIProvider) ExtractText(body []byte) (string, error) {
	var resp openAIChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	msg := resp.Choices[0].Message
	if msg.Content == "" {
		if msg.Refusal != "" {
			return "", fmt.Errorf("model refused: %s", msg.Refusal)
		}
		return "", fmt.Errorf("empty message content (finish_reason=%q)", resp.Choices[0].FinishReason)
	}
	return msg.Content, nil
}
