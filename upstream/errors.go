// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upstream

import "fmt"

// StatusError means the backend answered with a non-2xx status. Message
// is extracted from the backend's JSON or text body when possible.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// Details maps a backend status to the short explanation surfaced to
// clients alongside the error message.
func (e *StatusError) Details() string {
	switch e.Code {
	case 404:
		return "endpoint not found"
	case 429:
		return "rate limit exceeded"
	case 503:
		return "service unavailable"
	default:
		return "unknown error"
	}
}

// ParseError means the backend answered 2xx but the body was not the
// expected JSON shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "invalid backend response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
