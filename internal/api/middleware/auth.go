package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-api/internal/api/metrics"
	"github.com/taskhive/task-api/internal/api/response"
	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
	"github.com/taskhive/task-api/internal/core/token"
)

// TokenHeader carries session and guest tokens. Refresh tokens use the
// standard Authorization header instead; the asymmetry is deliberate.
const TokenHeader = "x-auth-token"

// Context keys set for authenticated requests.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// Auth authenticates every request whose path does not start with one of the
// public prefixes. Session tokens are resolved against storage so that the
// request carries the account's current role, not the role embedded at
// issuance; guest tokens skip the lookup and attach no identity.
func Auth(codec *token.Codec, users ports.UserRepository, publicPrefixes []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			raw := c.Request().Header.Get(TokenHeader)
			if raw == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return reject(c, "No token, authorization denied", "Token is required for authentication.")
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.AuthFailuresTotal.WithLabelValues("expired").Inc()
					return reject(c, "Token expired", "Your session has expired. Please log in again.")
				}
				metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
				return reject(c, "Token is not valid", "Token verification failed.")
			}

			if !structurallyValid(claims) {
				metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
				return reject(c, "Token is not valid", "Token does not contain a valid id, role, or tokenType.")
			}

			// Guest tokens are accepted without an account behind them, so
			// there is nothing to attach to the request.
			if claims.Kind == token.KindGuest {
				return next(c)
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.AuthFailuresTotal.WithLabelValues("user_not_found").Inc()
					return reject(c, "User not found", "No user found for the provided token id.")
				}
				metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
				return reject(c, "Token is not valid", "Token verification failed.")
			}

			c.Set(CtxUserID, user.ID)
			c.Set(CtxEmail, user.Email)
			c.Set(CtxRole, user.Role)
			return next(c)
		}
	}
}

// structurallyValid checks the decoded claims carry an id, a recognised
// role, and a kind the gate accepts (session or guest).
func structurallyValid(claims *token.Claims) bool {
	if claims.Subject == "" || claims.Role == "" || claims.Kind == "" {
		return false
	}
	if !domain.IsValidRole(claims.Role) {
		return false
	}
	return claims.Kind == token.KindSession || claims.Kind == token.KindGuest
}

func reject(c echo.Context, message, description string) error {
	return response.JSON(c, http.StatusUnauthorized, "Unauthorized", message, description, nil)
}
