package models

// MissingImageMessage is the localized body text returned when no photo was sent.
const MissingImageMessage = "Фото не передано"

// AnalyzeRequest is the inbound body: a base64-encoded photo without a data URL prefix.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// ErrorResponse represents an error response. Message is omitted for client errors so
// the body stays exactly {"error": "..."}.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
