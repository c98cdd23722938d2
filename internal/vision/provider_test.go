package vision

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("Request body is not JSON: %v", err)
	}
	return payload
}

func TestOpenAIProvider_NewRequest(t *testing.T) {
	p := NewOpenAIProvider("https://api.openai.com/v1/", "gpt-4o", 1000)

	req, err := p.NewRequest(context.Background(), "sk-test", Input{Prompt: "describe", ImageBase64: "Zm9vYmFy"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("Expected POST, got %s", req.Method)
	}
	if req.URL.String() != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("Unexpected URL: %s", req.URL)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Expected bearer auth, got %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected JSON content type, got %q", got)
	}

	payload := decodeBody(t, req.Body)
	if payload["model"] != "gpt-4o" {
		t.Errorf("Expected model gpt-4o, got %v", payload["model"])
	}
	if payload["max_tokens"] != float64(1000) {
		t.Errorf("Expected max_tokens 1000, got %v", payload["max_tokens"])
	}

	messages := payload["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("Expected text and image parts, got %d", len(content))
	}
	text := content[0].(map[string]any)
	if text["type"] != "text" || text["text"] != "describe" {
		t.Errorf("Unexpected text part: %v", text)
	}
	image := content[1].(map[string]any)
	if image["type"] != "image_url" {
		t.Errorf("Expected image_url part, got %v", image["type"])
	}
	imageURL := image["image_url"].(map[string]any)
	if imageURL["url"] != "data:image/jpeg;base64,Zm9vYmFy" {
		t.Errorf("Unexpected data URL: %v", imageURL["url"])
	}
	if imageURL["detail"] != "high" {
		t.Errorf("Expected detail high, got %v", imageURL["detail"])
	}
}

func TestOpenAIProvider_ExtractText(t *testing.T) {
	p := NewOpenAIProvider("https://api.openai.com/v1", "gpt-4o", 1000)

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{"content", `{"choices":[{"message":{"content":"{\"a\":1}"}}]}`, `{"a":1}`, ""},
		{"no choices", `{"choices":[]}`, "", "no choices"},
		{"refusal", `{"choices":[{"message":{"content":null,"refusal":"cannot help"}}]}`, "", "model refused"},
		{"empty content", `{"choices":[{"message":{"content":""},"finish_reason":"length"}]}`, "", "length"},
		{"not json", `<html>`, "", "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ExtractText([]byte(tt.body))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGeminiProvider_NewRequest(t *testing.T) {
	p := NewGeminiProvider("https://generativelanguage.googleapis.com/v1beta", "gemini-1.5-flash", 1000, 0.4)

	req, err := p.NewRequest(context.Background(), "g-key", Input{Prompt: "describe", ImageBase64: "Zm9vYmFy"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if req.URL.Path != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Errorf("Unexpected path: %s", req.URL.Path)
	}
	if got := req.URL.Query().Get("key"); got != "g-key" {
		t.Errorf("Expected key in query string, got %q", got)
	}
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("Expected no Authorization header, got %q", got)
	}

	payload := decodeBody(t, req.Body)
	contents := payload["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(parts))
	}
	if parts[0].(map[string]any)["text"] != "describe" {
		t.Errorf("Unexpected text part: %v", parts[0])
	}
	inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
	if inline["mime_type"] != "image/jpeg" || inline["data"] != "Zm9vYmFy" {
		t.Errorf("Unexpected inline data: %v", inline)
	}

	genCfg := payload["generationConfig"].(map[string]any)
	if genCfg["maxOutputTokens"] != float64(1000) {
		t.Errorf("Expected maxOutputTokens 1000, got %v", genCfg["maxOutputTokens"])
	}
	if genCfg["temperature"] != 0.4 {
		t.Errorf("Expected temperature 0.4, got %v", genCfg["temperature"])
	}
}

func TestGeminiProvider_ExtractText(t *testing.T) {
	p := NewGeminiProvider("https://example.test", "m", 10, 0)

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{"first part", `{"candidates":[{"content":{"parts":[{"text":"{}"}]}}]}`, "{}", ""},
		{"skips empty part", `{"candidates":[{"content":{"parts":[{},{"text":"ok"}]}}]}`, "ok", ""},
		{"blocked", `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`, "", "SAFETY"},
		{"no candidates", `{}`, "", "no candidates"},
		{"no text", `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`, "", "MAX_TOKENS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ExtractText([]byte(tt.body))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
