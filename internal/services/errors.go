package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInvalidInput marks requests with missing or malformed fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks resources that do not exist or that the caller
	// cannot see. Ownership failures use this marker too, so responses do
	// not reveal whether the resource exists.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks operations applied to a resource whose current
	// state does not permit them.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict marks lost races, such as two clients completing the same
	// step at once.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable marks upstream dependencies that failed or timed out.
	ErrUnavailable = errors.New("service unavailable")
)

// Wrap tags err with a taxonomy marker and operation context. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a tagged error to the response status the API should send.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message extracts the user-facing portion of a tagged error, stripping the
// marker prefix. Untagged errors produce a generic message so internals do
// not leak to clients.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, marker := range []error{ErrInvalidInput, ErrNotFound, ErrInvalidState, ErrConflict, ErrUnavailable} {
		if errors.Is(err, marker) {
			msg := err.Error()
			if trimmed, ok := strings.CutPrefix(msg, marker.Error()+": "); ok {
				return trimmed
			}
			return msg
		}
	}
	return "internal server error"
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
