package restclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

const defaultRequestTimeout = 15 * time.Second

// Client issues requests against a fixed host using a declared endpoint
// registry. All configuration is immutable after construction, so one
// client may serve concurrent Fetch calls without locking.
type Client struct {
	hostURL  string
	registry *Registry
	format   ResponseFormat
	client   httpclient.Client
	log      Logger
}

// New builds a client from raw endpoint definitions. Definitions are
// sanitized and validated up front; a malformed registry fails
// construction instead of producing a client that rejects every call.
func New(hostURL string, endpoints []Endpoint, format ResponseFormat, client httpclient.Client, log Logger) (*Client, error) {
	reg, err := NewRegistry(endpoints)
	if err != nil {
		return nil, fmt.Errorf("build endpoint registry: %w", err)
	}
	return NewWithRegistry(hostURL, reg, format, client, log)
}

// NewWithRegistry builds a client around an already-validated registry.
// A nil transport falls back to DefaultHTTPClient; a nil logger is
// replaced with a no-op sink. The format is stored verbatim, anything
// outside the known set behaves as JSON.
func NewWithRegistry(hostURL string, reg *Registry, format ResponseFormat, client httpclient.Client, log Logger) (*Client, error) {
	hostURL = strings.TrimSpace(hostURL)
	if hostURL == "" {
		return nil, errors.New("host url is required")
	}
	if reg == nil {
		return nil, errors.New("endpoint registry is required")
	}
	if client == nil {
		client = DefaultHTTPClient()
	}

	return &Client{
		hostURL:  hostURL,
		registry: reg,
		format:   format,
		client:   client,
		log:      ensureLogger(log),
	}, nil
}

// DefaultHTTPClient returns the transport used when none is supplied.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClient(defaultRequestTimeout)
}

// Format returns the configured response format.
func (c *Client) Format() ResponseFormat {
	return c.format
}

// Endpoints returns the endpoint definitions the client was built with.
func (c *Client) Endpoints() []Endpoint {
	return c.registry.All()
}

// Fetch validates the call, dispatches it over the transport, and
// decodes the response body per the configured format. A call that
// fails validation is logged and returned as an error without ever
// reaching the transport. A response status outside [200,299] becomes
// a StatusError; transport and decode errors pass through.
func (c *Client) Fetch(ctx context.Context, method, endpoint string, opts *RequestOptions) (*Result, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	endpoint = strings.TrimSpace(endpoint)

	ep, err := c.validateCall(method, endpoint, opts)
	if err != nil {
		c.log.ErrorObj("fetch rejected", "validation", map[string]any{
			"endpoint": endpoint,
			"method":   method,
			"error":    err.Error(),
		})
		return nil, err
	}

	req, err := buildRequest(c.hostURL, ep, method, opts, c.format)
	if err != nil {
		return nil, err
	}

	c.log.DebugObj("dispatching request", "request", map[string]any{
		"endpoint": endpoint,
		"method":   method,
		"url":      req.URL,
	})

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status > 299 {
		return nil, &StatusError{StatusCode: status, Snippet: responseSnippet(body)}
	}

	res, err := c.format.decode(body)
	if err != nil {
		return nil, err
	}
	res.StatusCode = status
	res.RequestURL = req.URL

	c.log.DebugObj("fetch completed", "response", map[string]any{
		"endpoint": endpoint,
		"method":   method,
		"status":   status,
	})
	return res, nil
}

// validateCall runs the pre-dispatch checks in order, short-circuiting
// on the first failure: endpoint exists, method is a recognized verb and
// allowed for the endpoint, options are present.
func (c *Client) validateCall(method, endpoint string, opts *RequestOptions) (Endpoint, error) {
	ep, ok := c.registry.ByName(endpoint)
	if !ok {
		return Endpoint{}, fmt.Errorf("endpoint %q: %w", endpoint, ErrEndpointNotFound)
	}

	if !isKnownMethod(method) {
		return Endpoint{}, fmt.Errorf("method %q: %w", method, ErrInvalidMethod)
	}
	if !methodAllowed(ep, method) {
		return Endpoint{}, fmt.Errorf("method %s on endpoint %q: %w", method, endpoint, ErrMethodNotAllowed)
	}

	if opts == nil {
		return Endpoint{}, ErrInvalidPayload
	}

	return ep, nil
}

func methodAllowed(ep Endpoint, method string) bool {
	for _, m := range ep.Methods {
		if m == method {
			return true
		}
	}
	return false
}

func responseSnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
