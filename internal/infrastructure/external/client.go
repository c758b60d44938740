// Package external holds the HTTP clients for the third-party services the
// API enriches events with: OpenCage for geocoding and OpenWeather for
// current conditions.
package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxAttempts        = 3
	retryBase          = 200 * time.Millisecond
	maxErrorBody       = 512
)

// StatusError reports a non-2xx answer from an upstream API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

func newHTTPClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// getJSON fetches rawURL and decodes the body into out. Transport errors and
// 5xx answers are retried with exponential backoff; 4xx answers are not.
// Returned errors never carry the query string, which holds the API key.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return redactURL(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return retry.RetryableError(redactURL(err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			serr := &StatusError{Status: resp.StatusCode, Body: string(body)}
			if resp.StatusCode >= 500 {
				return retry.RetryableError(serr)
			}
			return serr
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

// redactURL drops the query string from a *url.Error.
func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	safe := "<redacted>"
	if u, perr := url.Parse(urlErr.URL); perr == nil {
		u.RawQuery = ""
		u.User = nil
		u.Fragment = ""
		safe = u.String()
	}
	return &url.Error{Op: urlErr.Op, URL: safe, Err: urlErr.Err}
}
