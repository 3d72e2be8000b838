// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNotAuthenticated means no user id is set or the server answered 401.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyQuery is returned when asked to send blank text.
	ErrEmptyQuery = errors.New("query text is empty")
)

// =============================================================================
// ADVISORIES
// =============================================================================

// Advisories replace the assistant reply when a chat request fails. They are
// shown to the user as if the assistant had said them.
const (
	AdvisoryUnauthenticated = "Please login to use the chat feature."
	AdvisoryUnreachable     = "Sorry, I couldn't connect to the server. Please make sure the backend is running."
	AdvisoryFailed          = "Sorry, I encountered an error. Please try again."
)

// DefaultAuthFailure is used when a failed auth response carries no detail.
const DefaultAuthFailure = "Authentication failed"

// =============================================================================
// TYPED ERRORS
// =============================================================================

// StatusError is a non-2xx response. Detail holds the server's "detail"
// field when the body had one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes a 401 match ErrNotAuthenticated.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotAuthenticated && e.StatusCode == http.StatusUnauthorized
}

// AuthError is a failed login or signup. Error returns the text to show on
// the form.
type AuthError struct {
	StatusCode int
	Detail     string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return DefaultAuthFailure
	}
	return e.Detail
}

// StreamError is a failure after the chat stream started. Partial holds the
// text assembled before the failure.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// AdvisoryFor maps a StreamChat error to the advisory shown in its place.
func AdvisoryFor(err error) string {
	var statusErr *StatusError
	var streamErr *StreamError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthenticated):
		return AdvisoryUnauthenticated
	case errors.As(err, &streamErr):
		return AdvisoryFailed
	case errors.As(err, &statusErr):
		return AdvisoryUnreachable
	case isTransportError(err):
		return AdvisoryUnreachable
	default:
		return AdvisoryFailed
	}
}
