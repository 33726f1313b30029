package carbonwatch

import (
	"errors"
)

// The errors in carbonwatch can check the error type via errors.Is function.
var (
	// ErrNetwork is a error for if the remote service could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrStatus is a error for if the remote service responded with a non-success status code.
	ErrStatus = errors.New("unexpected status code")

	// ErrParse is a error for if the response of the remote service was not understandable.
	ErrParse = errors.New("failed to parse response")

	// ErrServiceUnavailable is a error for if no carbon intensity has been fetched yet.
	ErrServiceUnavailable = errors.New("service unavailable: carbon intensity is not fetched yet")

	// ErrInvalidConfig is a error for if the configuration was wrong.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCommunicate is a error for if failed to communicate with the carbonwatch server.
	ErrCommunicate = errors.New("server communication error")

	// ErrInvalidRecord is a error for if failed to parse log because it was invalid format.
	ErrInvalidRecord = errors.New("invalid record")
)
