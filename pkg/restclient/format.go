package restclient

import (
	"encoding/json"
	"fmt"
)

// ResponseFormat selects how response bodies are decoded. The value is
// stored verbatim on the client; anything outside the known set gets the
// JSON treatment for both the Content-Type header and decoding.
type ResponseFormat string

const (
	FormatJSON ResponseFormat = "json"
	FormatText ResponseFormat = "text"
	FormatBlob ResponseFormat = "blob"
)

// ContentType returns the request Content-Type header for the format.
func (f ResponseFormat) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain"
	case FormatBlob:
		// blob keeps text/plain rather than a binary type; existing
		// consumers depend on it.
		return "text/plain"
	default:
		return "application/json"
	}
}

// Result is the decoded body of a dispatched request. Exactly one of
// JSON, Text, or Blob is populated, matching Format. RequestURL is the
// full target the request was sent to.
type Result struct {
	StatusCode int
	RequestURL string
	Format     ResponseFormat
	JSON       any
	Text       string
	Blob       []byte
}

// decode interprets the raw body per the format.
func (f ResponseFormat) decode(body []byte) (*Result, error) {
	switch f {
	case FormatText:
		return &Result{Format: f, Text: string(body)}, nil
	case FormatBlob:
		return &Result{Format: f, Blob: body}, nil
	default:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("decode json response: %w", err)
		}
		return &Result{Format: f, JSON: v}, nil
	}
}
