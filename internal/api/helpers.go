package api

import (
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

// MIMEBDS is the content type of a raw stream body.
const MIMEBDS = "application/x-bds"

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{
			Message: msg,
			Type:    errType,
		},
	})
}

func writeCodecError(c *echo.Context, err error) error {
	status, errType := statusFor(err)
	return writeError(c, status, errType, err.Error())
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	data, err := io.ReadAll(r)
	if err != nil {
		return out, invalidRequestError{msg: fmt.Sprintf("reading body: %v", err), cause: err}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, invalidRequestError{msg: fmt.Sprintf("invalid JSON body: %v", err), cause: err}
	}
	return out, nil
}
