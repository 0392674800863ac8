package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
	// maxErrorBodyBytes caps how much of an error response is kept for diagnostics
	maxErrorBodyBytes = 1024
	// maxResponseBytes caps the size of a decoded response body
	maxResponseBytes = 1 << 20
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains common fields and functionality for all API clients.
type BaseClient struct {
	BaseURL    string
	HTTPClient HTTPClient
	Semaphore  chan struct{} // Limits concurrent requests
	Limiter    *rate.Limiter // Optional request rate limit, nil means unlimited
}

// NewBaseClient creates a new base client with concurrency and rate limiting.
func NewBaseClient(baseURL string, httpClient HTTPClient, limiter *rate.Limiter) *BaseClient {
	return &BaseClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Semaphore:  make(chan struct{}, MaxConcurrentRequests),
		Limiter:    limiter,
	}
}

// DoRateLimited performs an operation once a concurrency slot and a rate token are available.
func (c *BaseClient) DoRateLimited(ctx context.Context, fn func() error) error {
	select {
	case c.Semaphore <- struct{}{}:
		defer func() { <-c.Semaphore }()
	case <-ctx.Done():
		return ctx.Err()
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	return fn()
}

// Get performs a rate-limited GET request and returns the response body.
// A 404 is reported as ErrNotFound and any other non-200 status as *StatusError.
func (c *BaseClient) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var body []byte
	err := c.DoRateLimited(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		for key, values := range header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
			return &StatusError{StatusCode: resp.StatusCode, Body: string(msg)}
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
