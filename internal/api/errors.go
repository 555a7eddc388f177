// Package api implements the Outly remote API clients: request construction,
// JSON encoding/decoding, Bearer authentication, and classification of every
// failure into a typed error taxonomy.
package api

import (
	"errors"
	"fmt"
)

// Kind classifies a remote call failure. The synchronizer layer branches on
// Kind, never on error strings.
type Kind int

const (
	// KindUnknown covers failures that fit no other classification.
	KindUnknown Kind = iota
	// KindEncoding means the request body could not be JSON-encoded.
	KindEncoding
	// KindDecoding means the response body could not be decoded into the
	// expected shape.
	KindDecoding
	// KindInvalidResponse means a non-2xx status without a structured
	// error message in the body.
	KindInvalidResponse
	// KindServer means a 4xx/5xx whose body carried a structured message.
	KindServer
	// KindNetwork means the transport failed before a response arrived.
	KindNetwork
	// KindNoSession means an authenticated call was attempted without a
	// cached session token. Raised before any network I/O.
	KindNoSession
)

func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding"
	case KindDecoding:
		return "decoding"
	case KindInvalidResponse:
		return "invalid_response"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindNoSession:
		return "no_session"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every remote call.
type Error struct {
	// Kind is the classification the caller branches on.
	Kind Kind

	// Status is the HTTP status code, when a response was received.
	Status int

	// Message is the server-supplied message for KindServer errors.
	Message string

	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
	case KindInvalidResponse:
		return fmt.Sprintf("invalid response: status %d", e.Status)
	case KindNoSession:
		return "no session token"
	default:
		if e.cause != nil {
			return fmt.Sprintf("%s error: %v", e.Kind, e.cause)
		}
		return fmt.Sprintf("%s error", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf extracts the Kind from err, or KindUnknown when err is not an
// api.Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an api.Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func encodingError(err error) *Error {
	return &Error{Kind: KindEncoding, cause: err}
}

func decodingError(err error) *Error {
	return &Error{Kind: KindDecoding, cause: err}
}

func invalidResponseError(status int) *Error {
	return &Error{Kind: KindInvalidResponse, Status: status}
}

func serverError(status int, message string) *Error {
	return &Error{Kind: KindServer, Status: status, Message: message}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, cause: err}
}

// ErrNoSession is returned before any network call when authentication is
// required and no session row exists.
var ErrNoSession = &Error{Kind: KindNoSession}
