package restclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for pre-dispatch validation. Callers match them with
// errors.Is to tell a rejected call apart from a transport failure.
var (
	ErrEndpointNotFound = errors.New("endpoint not found")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrMethodNotAllowed = errors.New("method not allowed for endpoint")
	ErrInvalidPayload   = errors.New("request options must not be nil")
)

// ConfigError reports an endpoint definition missing a required field.
type ConfigError struct {
	Endpoint string
	Field    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is required for endpoint %q", e.Field, e.Endpoint)
}

// StatusError reports a response with a status code outside [200,299].
type StatusError struct {
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("response status %d", e.StatusCode)
	}
	return fmt.Sprintf("response status %d: %s", e.StatusCode, e.Snippet)
}
