package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/task-api/internal/api/response"
	"github.com/taskhive/task-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the canonical response envelope for every error.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, desc := resolveError(err, log, c)
		_ = response.Error(c, code, msg, desc)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), ""
	}

	// Known domain errors that escaped the handlers.
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg, "Please check the error below"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists", "User with this email already exists."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect."
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "Task not found", ""
	case errors.Is(err, domain.ErrRoleConfig):
		return http.StatusInternalServerError, "Internal Server Error", "Invalid role configuration."
	}

	// Unexpected error: log the real cause, return a generic envelope.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal Server Error",
		"An internal server error occurred while processing your request."
}
