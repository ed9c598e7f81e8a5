// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package httpx provides the shared HTTP plumbing for every upstream client.

Architecture:

  - One Transport: All clients share a tuned [http.Transport] so connection pools
    are reused across AniList, TMDB, Jikan, Kitsu, Shikimori and RapidAPI.
  - Typed Failures: Non-2xx answers become a [*StatusError] that callers can
    inspect with [IsNotFound] instead of parsing strings.
  - No Retries: A failed call is reported once; services decide how to degrade.
*/
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxErrorBody bounds how much of a failed response body is kept for logs.
const maxErrorBody = 512

// New returns an HTTP client with a tuned shared-pool transport and timeout.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(timeout),
	}
}

func newTransport(timeout time.Duration) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 90 * time.Second
	transport.ResponseHeaderTimeout = timeout
	transport.TLSHandshakeTimeout = 5 * time.Second
	return transport
}

// StatusError reports a non-2xx upstream answer.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var statusError *StatusError
	return errors.As(err, &statusError) && statusError.StatusCode == http.StatusNotFound
}

/*
GetJSON issues a GET request and decodes a JSON body into out.

Parameters:
  - ctx: context.Context
  - client: *http.Client
  - rawURL: string (fully built, including query)
  - headers: map[string]string (may be nil)
  - out: any (pointer to the decode target)

Returns:
  - error: Transport failure, [*StatusError] or a decode failure
*/
func GetJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	for name, value := range headers {
		request.Header.Set(name, value)
	}

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return &StatusError{URL: request.URL.Redacted(), StatusCode: response.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
