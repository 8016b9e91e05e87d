package fetch

import (
	"errors"
	"fmt"
)

// ErrBaseURLMissing is returned when no catalog service address is configured.
// The message is shown to users verbatim.
var ErrBaseURLMissing = errors.New("API URL is not set.") //nolint:staticcheck // user-facing text

// MissingInputError reports a required identifier that was absent when a view
// was activated. No network call is made for it.
type MissingInputError struct {
	Message string
}

func (e *MissingInputError) Error() string {
	return e.Message
}

// MissingInput builds a MissingInputError with the given user-facing message.
func MissingInput(message string) error {
	return &MissingInputError{Message: message}
}

// StatusError is returned for a non-2xx response from the catalog service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// StatusMessage renders the user-facing message for an HTTP status code.
type StatusMessage func(code int) string

// ListStatus is the message used by list endpoints.
func ListStatus(code int) string {
	return fmt.Sprintf("HTTP error! Status: %d", code)
}

// NotFoundStatus is the message used by single-entity endpoints.
func NotFoundStatus(kind string) StatusMessage {
	return func(code int) string {
		return fmt.Sprintf("%s not found (HTTP %d)", kind, code)
	}
}

// Kind classifies a fetch error for logging and metrics.
func Kind(err error) string {
	var (
		missing *MissingInputError
		status  *StatusError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBaseURLMissing):
		return "configuration"
	case errors.As(err, &missing):
		return "missing_input"
	case errors.As(err, &status):
		return "status"
	default:
		return "transport"
	}
}
