package vision

import (
	"encoding/json"
	"strings"
	"unicode"

	apperrors "go-skin-analyzer/internal/errors"
)

const fence = "```"

// StripCodeFence removes a leading ``` fence (with an optional language tag such as
// "json") and a trailing ``` fence, trimming surrounding whitespace. Text without fences
// is only trimmed.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		tagEnd := strings.IndexFunc(s, func(r rune) bool {
			return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+')
		})
		if tagEnd == -1 {
			tagEnd = len(s)
		}
		s = s[tagEnd:]
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// ParseAnalysis fence-strips the model answer and returns it as a JSON document. The
// document is not checked against the requested schema; it only has to be valid JSON.
func ParseAnalysis(text string) (json.RawMessage, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return nil, apperrors.NewModelOutputError("model returned an empty answer", nil)
	}

	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, apperrors.NewModelOutputError("model answer is not valid JSON", err)
	}
	return json.RawMessage(cleaned), nil
}
