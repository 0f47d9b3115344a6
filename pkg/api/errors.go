package api

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind represents the category of a failed dispatch. The set is closed:
// every failure produced by the client carries exactly one of these kinds.
type ErrorKind string

const (
	ErrorKindTransport      ErrorKind = "transport"
	ErrorKindDecode         ErrorKind = "decode"
	ErrorKindUnauthorized   ErrorKind = "unauthorized"
	ErrorKindForbidden      ErrorKind = "forbidden"
	ErrorKindNotFound       ErrorKind = "not_found"
	ErrorKindInvalidRequest ErrorKind = "invalid_request"
	ErrorKindRateLimited    ErrorKind = "rate_limited"
	ErrorKindServerError    ErrorKind = "server_error"
	ErrorKindAPI            ErrorKind = "api_error"
)

// MaxBodySnippet is the number of response body bytes kept on an Error.
const MaxBodySnippet = 4096

// Error is the single error type returned by every client operation.
type Error struct {
	Kind ErrorKind

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Message is the server-provided error message when one could be
	// extracted, otherwise a short description of the failure.
	Message string

	// Body holds up to MaxBodySnippet bytes of the raw response body.
	Body string

	// RetryAfter is parsed from the Retry-After header on rate_limited errors.
	RetryAfter time.Duration

	// Timeout is set on transport errors caused by the per-call deadline.
	Timeout bool

	// Cause is the underlying transport or decode error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Kind, so errors.Is(err, api.ErrRateLimited)
// works regardless of status code or message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// IsRetryable reports whether the failure is plausibly transient.
func (e *Error) IsRetryable() bool {
	switch e.Kind {
	case ErrorKindRateLimited, ErrorKindServerError, ErrorKindTransport:
		return true
	default:
		return false
	}
}

// IsTimeout reports whether the call exceeded its deadline.
func (e *Error) IsTimeout() bool {
	return e.Kind == ErrorKindTransport && e.Timeout
}

// Sentinels for errors.Is checks.
var (
	ErrTransport      = &Error{Kind: ErrorKindTransport}
	ErrDecode         = &Error{Kind: ErrorKindDecode}
	ErrUnauthorized   = &Error{Kind: ErrorKindUnauthorized}
	ErrForbidden      = &Error{Kind: ErrorKindForbidden}
	ErrNotFound       = &Error{Kind: ErrorKindNotFound}
	ErrInvalidRequest = &Error{Kind: ErrorKindInvalidRequest}
	ErrRateLimited    = &Error{Kind: ErrorKindRateLimited}
	ErrServerError    = &Error{Kind: ErrorKindServerError}
	ErrAPI            = &Error{Kind: ErrorKindAPI}
)

// KindOf returns the Kind of err if it is (or wraps) an *Error, or "" otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewTransportError creates an Error for failures before any response was received.
func NewTransportError(cause error, timeout bool) *Error {
	msg := "request failed"
	if timeout {
		msg = "request deadline exceeded"
	}
	return &Error{
		Kind:    ErrorKindTransport,
		Message: msg,
		Timeout: timeout,
		Cause:   cause,
	}
}

// NewDecodeError creates an Error for payloads that do not match the expected schema.
func NewDecodeError(message string, cause error) *Error {
	return &Error{
		Kind:    ErrorKindDecode,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidRequestError creates an Error for a request that was rejected,
// either by the server (4xx) or before sending (status 0).
func NewInvalidRequestError(message string) *Error {
	return &Error{
		Kind:    ErrorKindInvalidRequest,
		Message: message,
	}
}

// NewStatusError classifies a non-2xx HTTP status into an Error. The body is
// truncated to MaxBodySnippet bytes.
func NewStatusError(status int, message, body string) *Error {
	if len(body) > MaxBodySnippet {
		body = body[:MaxBodySnippet]
	}
	return &Error{
		Kind:       KindForStatus(status),
		StatusCode: status,
		Message:    message,
		Body:       body,
	}
}

// KindForStatus maps an HTTP status code to an ErrorKind. 2xx statuses
// have no error kind and return "".
func KindForStatus(status int) ErrorKind {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == 401:
		return ErrorKindUnauthorized
	case status == 403:
		return ErrorKindForbidden
	case status == 404:
		return ErrorKindNotFound
	case status == 429:
		return ErrorKindRateLimited
	case status >= 400 && status < 500:
		return ErrorKindInvalidRequest
	case status >= 500 && status < 600:
		return ErrorKindServerError
	default:
		return ErrorKindAPI
	}
}
