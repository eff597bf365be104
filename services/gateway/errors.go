package gateway

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a 2xx response lacks a required field.
var ErrMalformedResponse = errors.New("malformed upstream response")

// NetworkError is a transport failure: the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the upstream API.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: upstream returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsUpstream reports whether err came from the upstream call rather than local input.
func IsUpstream(err error) bool {
	var netErr *NetworkError
	var httpErr *HTTPError
	return errors.As(err, &netErr) || errors.As(err, &httpErr) || errors.Is(err, ErrMalformedResponse)
}
