package pharmacy

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

var (
	// ErrEmptyAddress is returned when a search is attempted with a blank address.
	ErrEmptyAddress = errors.New("address cannot be empty")
	// ErrEmptyDirectionID is returned when a pending reference carries no id.
	ErrEmptyDirectionID = errors.New("direction id cannot be empty")
)

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying network error.
func (e *TransportError) Unwrap() error { return e.Err }

// ServerError means the backend answered with a non-2xx status.
type ServerError struct {
	Op         string
	StatusCode int
	// Body is truncated for logging.
	Body string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// DecodeError means a 2xx response body did not match the expected shape.
type DecodeError struct {
	Op   string
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

// Unwrap exposes the decoding error.
func (e *DecodeError) Unwrap() error { return e.Err }

// ResolutionError wraps any failure to exchange a direction id for a URL.
type ResolutionError struct {
	ID  string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve direction %q: %v", e.ID, e.Err)
}

// Unwrap exposes the cause.
func (e *ResolutionError) Unwrap() error { return e.Err }

// IsTransport reports whether err contains a TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsServer reports whether err contains a ServerError.
func IsServer(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

// IsDecode reports whether err contains a DecodeError.
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// IsResolution reports whether err contains a ResolutionError.
func IsResolution(err error) bool {
	var target *ResolutionError
	return errors.As(err, &target)
}
