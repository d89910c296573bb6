// Package response renders the canonical JSON envelope every endpoint
// returns, success and error alike.
package response

import (
	"time"

	"github.com/labstack/echo/v4"
)

// Envelope is the wire shape of every response body.
type Envelope struct {
	Timestamp   time.Time      `json:"timestamp"`
	Code        int            `json:"code"`
	Status      string         `json:"status"`
	Message     string         `json:"message"`
	Description string         `json:"description"`
	Data        any            `json:"data"`
	Pagination  map[string]any `json:"pagination"`
}

// New builds an envelope stamped with the current time. Data may be nil;
// pagination is always present as an empty object.
func New(code int, status, message, description string, data any) Envelope {
	return Envelope{
		Timestamp:   time.Now().UTC(),
		Code:        code,
		Status:      status,
		Message:     message,
		Description: description,
		Data:        data,
		Pagination:  map[string]any{},
	}
}

// JSON writes an enveloped response with the matching HTTP status code.
func JSON(c echo.Context, code int, status, message, description string, data any) error {
	return c.JSON(code, New(code, status, message, description, data))
}

// Error writes an enveloped error response with status "error".
func Error(c echo.Context, code int, message, description string) error {
	return JSON(c, code, "error", message, description, nil)
}
