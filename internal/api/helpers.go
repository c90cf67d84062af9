package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/ultimate-research/eff-lib/pkg/eff"
)

// ResponseError is the body shape of every error response.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{Message: msg, Type: errType},
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeInternalError(c *echo.Context, err error) error {
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
}

// writeConversionError maps codec failures onto 400 responses; the
// input is at fault, retrying cannot change the outcome.
func writeConversionError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, eff.ErrBadMagic),
		errors.Is(err, eff.ErrTruncated),
		errors.Is(err, eff.ErrCorruptIndex),
		errors.Is(err, eff.ErrInvalidText):
		return writeError(c, http.StatusBadRequest, "invalid_container_error", err.Error())
	default:
		return writeInternalError(c, err)
	}
}

func writeBlob(c *echo.Context, contentType string, data []byte) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.WriteHeader(http.StatusOK)
	_, err := res.Write(data)
	return err
}
