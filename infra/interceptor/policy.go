package interceptor

import (
	"errors"
	"net/http"
)

// StatusCoder is implemented by errors that map to an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// Policy decides whether an error is worth reporting.
type Policy func(err error) bool

// ShouldReport reports every error except those carrying an HTTP status
// below 500.
func ShouldReport(err error) bool {
	if err == nil {
		return false
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode() >= http.StatusInternalServerError
	}
	return true
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return validStatus(sc.StatusCode())
	}
	return http.StatusInternalServerError
}

// HTTPError attaches a status to an error.
type HTTPError struct {
	Status int
	Err    error
}

// NewHTTPError wraps err with status.
func NewHTTPError(status int, err error) *HTTPError {
	return &HTTPError{Status: status, Err: err}
}

// Error returns the wrapped message, or the status text without one.
func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return http.StatusText(validStatus(e.Status))
	}
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	if e == nil {
		return 0
	}
	return e.Status
}

// validStatus returns status, or 500 when it is not a known HTTP status.
func validStatus(status int) int {
	if http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}
