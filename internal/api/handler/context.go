package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-api/internal/api/middleware"
)

// ctxUserID extracts the caller's account id injected by the Auth middleware
// and fast-fails before any service call. An empty id means the request got
// here without a session token behind it (a guest token, or a wiring bug).
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
