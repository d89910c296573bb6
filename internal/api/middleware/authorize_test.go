package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/token"
)

func requireRoleRequest(t *testing.T, levels map[string]int, minRole, role string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}

	reached := false
	handler := RequireRole(levels, minRole)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, reached
}

func TestRequireRole_Levels(t *testing.T) {
	levels := map[string]int{"user": 2, "admin": 5}

	tests := []struct {
		name     string
		minRole  string
		role     string
		wantCode int
		wantPass bool
	}{
		{"user meets user", "user", "user", http.StatusOK, true},
		{"admin meets user", "user", "admin", http.StatusOK, true},
		{"admin meets admin", "admin", "admin", http.StatusOK, true},
		{"user below admin", "admin", "user", http.StatusForbidden, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, reached := requireRoleRequest(t, levels, tc.minRole, tc.role)
			if rec.Code != tc.wantCode || reached != tc.wantPass {
				t.Fatalf("got code=%d reached=%v, want code=%d reached=%v",
					rec.Code, reached, tc.wantCode, tc.wantPass)
			}
		})
	}
}

func TestRequireRole_NoRoleAttached(t *testing.T) {
	// The guest path through Auth attaches no role, so it lands here.
	rec, reached := requireRoleRequest(t, map[string]int{"user": 2}, "user", "")
	if reached || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got code=%d reached=%v", rec.Code, reached)
	}
	env := decodeEnvelope(t, rec)
	if env.Description != "User role is not defined." {
		t.Fatalf("unexpected description: %q", env.Description)
	}
}

func TestRequireRole_UnknownRole(t *testing.T) {
	rec, reached := requireRoleRequest(t, map[string]int{"user": 2}, "user", "superuser")
	if reached || rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got code=%d reached=%v", rec.Code, reached)
	}
	env := decodeEnvelope(t, rec)
	if env.Description != "Invalid role configuration." {
		t.Fatalf("unexpected description: %q", env.Description)
	}
}

// A guest token passes the authentication gate but carries no role into the
// request, so the authorization gate must reject it.
func TestRequireRole_GuestTokenThroughBothGates(t *testing.T) {
	codec := token.NewCodec("secret")
	users := &stubUserRepo{users: map[string]*domain.User{}}

	signed := signTestToken(t, codec, token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "guest_abc", ID: "guest_abc"},
		Role:             domain.RoleUser,
		Kind:             token.KindGuest,
	}, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set(TokenHeader, signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	chain := Auth(codec, users, testPublicPrefixes)(
		RequireRole(domain.RoleLevels, domain.RoleUser)(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		}))
	if err := chain(c); err != nil {
		t.Fatalf("chain returned error: %v", err)
	}

	if reached || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got code=%d reached=%v", rec.Code, reached)
	}
	if env := decodeEnvelope(t, rec); env.Description != "User role is not defined." {
		t.Fatalf("unexpected description: %q", env.Description)
	}
}

func TestRequireRole_MisconfiguredMinimum(t *testing.T) {
	rec, reached := requireRoleRequest(t, map[string]int{"user": 2}, "admin", "user")
	if reached || rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got code=%d reached=%v", rec.Code, reached)
	}
}
