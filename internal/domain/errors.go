package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrNoToken indicates a login response carried no recognizable token
	ErrNoToken = errors.New("no token in login response")
)

// NetworkError means the request never reached the server or no response
// was received. Reads may retry it; mutations surface it immediately.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError means the server was reachable and explicitly rejected the
// request. Status 401 additionally clears the stored session token as a
// side effect of the client adapter.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

// IsAuthError reports whether err is a 401 rejection.
func IsAuthError(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
