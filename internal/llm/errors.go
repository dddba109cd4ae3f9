package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed model API call.
type ErrorKind string

const (
	KindRateLimited ErrorKind = "rate_limited"
	KindTimeout     ErrorKind = "timeout"
	KindService     ErrorKind = "service_error"
	KindMalformed   ErrorKind = "malformed_response"
)

// ClientError is the error type returned by both the perception and
// generation clients. Callers convert these into per-category error
// statuses or failed attempts; they are never process-fatal.
type ClientError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func newClientError(kind ErrorKind, format string, args ...any) *ClientError {
	return &ClientError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the error kind of a client error, or KindService for
// any other non-nil error.
func KindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindService
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Kind == KindRateLimited
}

// IsTimeout reports whether err is a per-call timeout.
func IsTimeout(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Kind == KindTimeout
}

// IsMalformed reports whether err is an unparseable model response.
func IsMalformed(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Kind == KindMalformed
}
