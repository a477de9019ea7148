// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Sentinel errors. Callers detect them with errors.Is.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMissingField     = errors.New("missing required field")
	ErrBaseURLNotSet    = errors.New("api base URL is not set")
)

// RequestFailure is a non-success HTTP response. Message is extracted from the
// response body when the API provided one.
type RequestFailure struct {
	Status   int
	Message  string
	Method   string
	Endpoint string
}

func (e *RequestFailure) Error() string {
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.Endpoint, e.Status, e.Message)
}

// Temporary reports whether the status is worth retrying.
func (e *RequestFailure) Temporary() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// ParseError is a response body that decoded but did not match the endpoint's
// response type.
type ParseError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("failed to parse response from %s: %s: %v", e.Endpoint, e.Field, e.Err)
	}
	return fmt.Sprintf("failed to parse response from %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// messagePaths are the gjson paths searched, in order, for a human-readable
// message in an error body.
var messagePaths = []string{
	"message",
	"detail",
	"detail.0.msg",
	"error.message",
	"error",
	"errors.0.message",
}

// ExtractMessage pulls a readable message out of an error response body and
// falls back to the generic status text.
func ExtractMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		doc := gjson.ParseBytes(body)
		for _, p := range messagePaths {
			if r := doc.Get(p); r.Type == gjson.String && strings.TrimSpace(r.String()) != "" {
				return r.String()
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("HTTP %d %s", status, text)
	}
	return fmt.Sprintf("HTTP %d", status)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var rf *RequestFailure
	return errors.As(err, &rf) && rf.Status == http.StatusNotFound
}

// retryable classifies an error returned by a single attempt.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return false
	}
	var rf *RequestFailure
	if errors.As(err, &rf) {
		return rf.Temporary()
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return false
	}
	// Anything else is a transport failure.
	return true
}

// Friendly renders err for display to a user.
func Friendly(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return "not signed in: set DOCDASH_TOKEN or sign in through the dashboard"
	}
	var rf *RequestFailure
	if errors.As(err, &rf) {
		switch rf.Status {
		case http.StatusUnauthorized:
			return "session expired or token rejected: sign in again"
		case http.StatusForbidden:
			return "permission denied: " + rf.Message
		case http.StatusNotFound:
			return "not found: " + rf.Message
		}
		return rf.Message
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return "unexpected response from the server (" + pe.Endpoint + ")"
	}
	return err.Error()
}
