// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrRequestTimeout is returned when the context expires before a successful response.
	ErrRequestTimeout = errors.New("REQUEST_TIMEOUT")
	// ErrRequestFailed is returned when every attempt failed or the body could not be decoded.
	ErrRequestFailed = errors.New("REQUEST_FAILED")
)

// Client is a JSON-over-HTTP client with bounded retries.
type Client struct {
	httpClient *http.Client
	maxRetries int
	headers    map[string]string
}

func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		headers:    map[string]string{},
	}
}

// WithHeader sets a header sent on every request.
func (c *Client) WithHeader(key, value string) *Client {
	c.headers[key] = value
	return c
}

// PostJSON posts payload and decodes a 200 response into out.
// Transport errors and non-200 statuses are retried with exponential backoff starting at 100ms.
func (c *Client) PostJSON(ctx context.Context, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrRequestFailed, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ErrRequestTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			if resp != nil {
				resp.Body.Close()
			}
			return ErrRequestTimeout
		}
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}

		decodeErr := json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if decodeErr != nil {
			return fmt.Errorf("%w: decode error: %v", ErrRequestFailed, decodeErr)
		}
		return nil
	}

	return fmt.Errorf("%w: %v", ErrRequestFailed, lastErr)
}
