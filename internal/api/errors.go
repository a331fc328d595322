package api

import (
	"errors"
	"net/http"

	"github.com/nilx/io-bds/pkg/bds"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg   string
	cause error
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrInvalidRequest}
	}
	return []error{ErrInvalidRequest, e.cause}
}

// statusFor maps a codec or request error to an HTTP status and error type.
func statusFor(err error) (int, string) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, "payload_too_large_error"
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, bds.ErrSignatureMismatch),
		errors.Is(err, bds.ErrUnsupportedVersion),
		errors.Is(err, bds.ErrMalformedHeader),
		errors.Is(err, bds.ErrUnsupportedType),
		errors.Is(err, bds.ErrHeaderTooLarge),
		errors.Is(err, bds.ErrRead):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, bds.ErrOutOfMemory):
		return http.StatusRequestEntityTooLarge, "payload_too_large_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
