// Package httpclient implements the OCR and AI external clients:
// per-attempt timeout, three additional attempts with exponential
// backoff, retry only on transport error or 5xx.
package httpclient

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	// MaxRetries is the number of additional attempts after the first:
	// 1 + MaxRetries attempts total on a failing call.
	MaxRetries = 3
	// AttemptTimeout bounds a single HTTP attempt.
	AttemptTimeout = 10 * time.Second
	// baseBackoff is the multiplier in 500ms·2^(attempt-1).
	baseBackoff = 500 * time.Millisecond
)

// NewClient returns a retryablehttp.Client with the exact policy both
// external clients need: retry on transport error or any 5xx, never on
// 4xx; backoff 500ms*2^(attempt-1); RetryMax=MaxRetries so MaxRetries+1
// attempts total.
func NewClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	// Timeout bounds each individual attempt, not the whole retry
	// sequence: retryablehttp re-issues the request (and re-times-out)
	// on every attempt since the timeout lives on the underlying
	// *http.Client, not on the request context.
	client.HTTPClient.Timeout = AttemptTimeout
	client.RetryMax = MaxRetries
	client.CheckRetry = checkRetry
	client.Backoff = backoff
	client.Logger = nil
	return client
}

// checkRetry implements "retry on transport error or 5xx, never 4xx".
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp != nil && resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

// backoff implements 500ms*2^(attempt-1), ignoring retryablehttp's
// min/max/header-hint knobs: the formula is a fixed contract, not a
// tunable. retryablehttp passes the 0-based index of the attempt that
// just failed, so retry number attempt = attemptNum+1 and the waits are
// 500ms, 1s, 2s.
func backoff(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
	if attemptNum < 0 {
		attemptNum = 0
	}
	return time.Duration(float64(baseBackoff) * math.Pow(2, float64(attemptNum)))
}
