// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
)

const (
	// DefaultMaxRetries is the total number of attempts for a retryable call.
	DefaultMaxRetries = 3
	// DefaultBackoff is multiplied by the attempt number between attempts.
	DefaultBackoff = time.Second
)

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Idempotent marks a non-GET request as safe to retry, e.g. deletes.
	Idempotent bool
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Gateway wraps API calls with bounded retry and linear backoff.
type Gateway struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenSource
	maxRetries  int
	backoff     time.Duration
	retryWrites bool
	sleep       Sleeper
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) { g.httpClient = c }
}

func WithTokenSource(ts TokenSource) GatewayOption {
	return func(g *Gateway) { g.tokens = ts }
}

// WithMaxRetries sets the default attempt count. Values below 1 are ignored.
func WithMaxRetries(n int) GatewayOption {
	return func(g *Gateway) {
		if n >= 1 {
			g.maxRetries = n
		}
	}
}

func WithBackoff(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.backoff = d }
}

// WithWriteRetries allows retrying non-idempotent writes. Every attempt of one
// call then carries the same Idempotency-Key header.
func WithWriteRetries(enabled bool) GatewayOption {
	return func(g *Gateway) { g.retryWrites = enabled }
}

func WithSleeper(s Sleeper) GatewayOption {
	return func(g *Gateway) { g.sleep = s }
}

// NewGateway constructs a Gateway for the API rooted at baseURL.
func NewGateway(baseURL string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     StaticToken(""),
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BaseURL returns the API root.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Authenticated reports whether a token is currently available.
func (g *Gateway) Authenticated() error {
	_, err := g.tokens.Token()
	return err
}

// Call performs req and decodes a successful JSON response into out (which may
// be nil). maxRetries overrides the gateway default for this call. The last
// attempt's error is returned as is.
func (g *Gateway) Call(ctx context.Context, req Request, out any, maxRetries ...int) error {
	if g.baseURL == "" {
		return ErrBaseURLNotSet
	}

	attempts := g.maxRetries
	if len(maxRetries) > 0 && maxRetries[0] >= 1 {
		attempts = maxRetries[0]
	}
	if !g.retryAllowed(req) {
		attempts = 1
	}

	var body []byte
	if req.Body != nil {
		var err error
		if body, err = json.Marshal(req.Body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var idempotencyKey string
	if g.retryWrites && isWrite(req.Method) && !req.Idempotent {
		idempotencyKey = uuid.NewString()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = g.attempt(ctx, req, body, idempotencyKey, out)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts || !retryable(lastErr) {
			break
		}

		wait := time.Duration(attempt) * g.backoff
		log.WithError(lastErr).Debugf("%s %s: attempt %d/%d failed, retrying in %s",
			req.Method, req.Path, attempt, attempts, wait)
		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}

	return lastErr
}

// retryAllowed restricts automatic retry to reads and explicitly idempotent
// writes unless write retries were enabled.
func (g *Gateway) retryAllowed(req Request) bool {
	if !isWrite(req.Method) || req.Idempotent {
		return true
	}
	return g.retryWrites
}

func (g *Gateway) attempt(ctx context.Context, req Request, body []byte, idempotencyKey string, out any) error {
	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	token, err := g.tokens.Token()
	switch {
	case err == nil:
		httpReq.Header.Set("Authorization", "Bearer "+token)
	case errors.Is(err, ErrNotAuthenticated):
		log.Debugf("%s %s: no token available", method, req.Path)
	default:
		return err
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestFailure{
			Status:   resp.StatusCode,
			Message:  ExtractMessage(doc.Bytes(), resp.StatusCode),
			Method:   method,
			Endpoint: req.Path,
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(doc.Bytes(), out); err != nil {
		return &ParseError{Endpoint: req.Path, Err: err}
	}
	if v, ok := out.(validator); ok {
		if err := v.validate(); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Endpoint = req.Path
				return pe
			}
			return &ParseError{Endpoint: req.Path, Err: err}
		}
	}

	return nil
}

func isWrite(method string) bool {
	switch method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
