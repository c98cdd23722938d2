package vision

import (
	"encoding/json"
	"reflect"
	"testing"

	apperrors "go-skin-analyzer/internal/errors"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "\n  {\"a\":1}  \n", `{"a":1}`},
		{"fence with json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"uppercase tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"single line fence", "```json {\"a\":1} ```", `{"a":1}`},
		{"fence and outer whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"leading fence only", "```json\n{\"a\":1}", `{"a":1}`},
		{"trailing fence only", "{\"a\":1}\n```", `{"a":1}`},
		{"inner backticks kept", "```\n{\"a\":\"`x`\"}\n```", "{\"a\":\"`x`\"}"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAnalysis_RoundTrip(t *testing.T) {
	answer := "```json\n{\"oiliness\":{\"level\":\"средний\",\"score\":5,\"comment\":\"ok\"},\"top_tips\":[\"a\",\"b\",\"c\"]}\n```"

	raw, err := ParseAnalysis(answer)
	if err != nil {
		t.Fatalf("Expected fenced JSON to parse, got: %v", err)
	}

	var got, want map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Result is not JSON: %v", err)
	}
	_ = json.Unmarshal([]byte(StripCodeFence(answer)), &want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseAnalysis_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"prose", "Извините, я не могу оценить это фото."},
		{"truncated", "```json\n{\"oiliness\": {\"level\": \"низкий\""},
		{"empty fence", "```json\n```"},
		{"blank", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.in)
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeModelOutput) {
				t.Errorf("Expected model_output error, got: %v", err)
			}
		})
	}
}

func TestParseAnalysis_NoSchemaEnforcement(t *testing.T) {
	raw, err := ParseAnalysis(`{"unexpected": true, "score": 42}`)
	if err != nil {
		t.Fatalf("Expected arbitrary JSON to be accepted, got: %v", err)
	}
	if string(raw) != `{"unexpected": true, "score": 42}` {
		t.Errorf("Expected document to be returned verbatim, got %s", raw)
	}
}
