// Package vision talks to multimodal model providers: it builds each provider's request
// envelope, performs the single outbound call and turns the answer back into JSON.
package vision

import (
	"context"
	"net/http"
)

// ImageMimeType is the content type declared for every inline photo.
const ImageMimeType = "image/jpeg"

// Input is the provider-independent description of one analysis call.
type Input struct {
	Prompt      string
	ImageBase64 string
}

// Provider knows one vendor's wire format. Implementations are stateless and safe for
// concurrent use.
type Provider interface {
	// Name is a short label used in logs and metrics.
	Name() string
	// NewRequest builds the outbound HTTP request, including auth placement.
	NewRequest(ctx context.Context, apiKey string, in Input) (*http.Request, error)
	// ExtractText pulls the model's textual answer out of a 2xx response body.
	ExtractText(body []byte) (string, error)
}
