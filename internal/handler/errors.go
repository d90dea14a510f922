package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func validationError(message string, cause error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, message).SetInternal(cause)
}

// Slug conflicts are reported as 400, not 409, to keep the existing API contract.
func conflictError(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

func notFoundError(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, message)
}

func expiredError(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusGone, message)
}

// persistenceError forwards the store error to the client as details.
func persistenceError(message string, cause error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, message).SetInternal(cause)
}

// ErrorHandler renders errors returned by handlers as ErrorResponse.
func ErrorHandler(err error, c echo.Context) {
	// Already rendered, e.g. by the request logger
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := ErrorResponse{Error: "internal server error"}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			resp.Error = msg
		}
		if code >= http.StatusInternalServerError && httpErr.Internal != nil {
			resp.Details = httpErr.Internal.Error()
		}
	}

	event := log.Warn()
	if code >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Int("code", code).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Err(err).
		Msg("http error")

	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}
	c.JSON(code, resp)
}
