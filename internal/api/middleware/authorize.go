package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-api/internal/api/response"
)

// RequireRole gates a route behind a minimum role level. It runs after Auth
// and reads the role Auth attached to the request; guest requests carry no
// role and are rejected here. Comparison is table-driven so additional role
// tiers only need new entries in levels.
func RequireRole(levels map[string]int, minRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return response.JSON(c, http.StatusForbidden, "Forbidden",
					"Access denied", "User role is not defined.", nil)
			}

			userLevel, userOK := levels[role]
			minLevel, minOK := levels[minRole]
			if !userOK || !minOK {
				// A role outside the table is a deployment bug, not a bad
				// request.
				return response.Error(c, http.StatusInternalServerError,
					"Internal Server Error", "Invalid role configuration.")
			}

			if userLevel < minLevel {
				return response.JSON(c, http.StatusForbidden, "Forbidden",
					"Access denied", "You do not have the required role level to access this resource.", nil)
			}

			return next(c)
		}
	}
}
