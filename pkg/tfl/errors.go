package tfl

import (
	"fmt"
	"net/http"
)

// UnreachableError is returned when the request never produced a response,
// including when the request timed out.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("tfl api request failed: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// StatusError is returned when TfL answered with a non 2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tfl returned HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ParseError is returned when a successful response body is not a list of arrivals
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse tfl response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
