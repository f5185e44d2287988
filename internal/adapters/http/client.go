package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"depfetch/shared/config"
)

// StatusError reports a response outside the 2xx range
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d (%s)", e.StatusCode, e.Status)
}

// Client implements the HTTPClient port.
// It issues exactly one GET per call; redirects follow net/http defaults.
type Client struct {
	client *http.Client
	config config.HTTPConfig
}

// NewClient creates a new HTTP client with sensible defaults
func NewClient() *Client {
	return NewClientWithConfig(config.DefaultHTTPConfig())
}

// NewClientWithConfig creates a new HTTP client with custom configuration
func NewClientWithConfig(cfg config.HTTPConfig) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
	}
}

// WithTransport replaces the underlying round tripper
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.client.Transport = rt
	return c
}

// Download implements the HTTPClient interface. The caller owns the returned body.
func (c *Client) Download(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	responseHeaders := make(map[string]string, len(resp.Header))
	for key := range resp.Header {
		responseHeaders[key] = resp.Header.Get(key)
	}

	return resp.Body, responseHeaders, nil
}
