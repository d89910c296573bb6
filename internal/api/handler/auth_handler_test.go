package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-api/internal/api/response"
	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
)

type stubAuthService struct {
	googleAuth   func(assertion string) (*ports.TokenPair, *domain.User, error)
	signUp       func(input ports.SignUpInput) (*ports.TokenPair, *domain.User, error)
	login        func(email, password string) (*ports.TokenPair, *domain.User, error)
	refresh      func(refreshToken string) (*ports.TokenPair, error)
	refreshCalls int
}

func (s *stubAuthService) GoogleAuth(_ context.Context, assertion string) (*ports.TokenPair, *domain.User, error) {
	return s.googleAuth(assertion)
}

func (s *stubAuthService) SignUp(_ context.Context, input ports.SignUpInput) (*ports.TokenPair, *domain.User, error) {
	return s.signUp(input)
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.login(email, password)
}

func (s *stubAuthService) RefreshSession(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
	s.refreshCalls++
	return s.refresh(refreshToken)
}

func (s *stubAuthService) IssueGuestToken(context.Context) (string, int64, error) {
	return "", 0, nil
}

func testPair() *ports.TokenPair {
	return &ports.TokenPair{
		SessionToken: "session-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    time.Now().Unix() + 3600,
	}
}

func testUser() *domain.User {
	return &domain.User{ID: "user_1", Email: "a@b.com", FirstName: "Alice", Role: domain.RoleUser}
}

func newAuthContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	return env
}

func dataField(t *testing.T, env response.Envelope, key string) any {
	t.Helper()
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is not an object: %T", env.Data)
	}
	return data[key]
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	svc := &stubAuthService{
		signUp: func(input ports.SignUpInput) (*ports.TokenPair, *domain.User, error) {
			if input.Email != "a@b.com" || input.Password != "Abcdef1!" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return testPair(), testUser(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/api/v1/auth/signup",
		`{"email":"a@b.com","password":"Abcdef1!","firstName":"Alice"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeBody(t, rec)
	if env.Message != "Signup successful" || env.Status != "success" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if dataField(t, env, "sessionToken") != "session-token" {
		t.Fatalf("missing session token in data")
	}
	if dataField(t, env, "refreshToken") != "refresh-token" {
		t.Fatalf("missing refresh token in data")
	}
	if dataField(t, env, "expiresIn") == nil {
		t.Fatalf("missing expiresIn in data")
	}
	user, ok := dataField(t, env, "user").(map[string]any)
	if !ok || user["email"] != "a@b.com" {
		t.Fatalf("missing user in data: %v", env.Data)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password leaked in response")
	}
}

func TestAuthHandler_SignUp_ValidationError(t *testing.T) {
	svc := &stubAuthService{
		signUp: func(ports.SignUpInput) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.NewValidationError("Password must be at least 8 characters long")
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/api/v1/auth/signup",
		`{"email":"a@b.com","password":"short"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeBody(t, rec)
	if env.Message != "Password must be at least 8 characters long" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
	if env.Description != "Please check the error below" {
		t.Fatalf("unexpected description: %q", env.Description)
	}
}

func TestAuthHandler_SignUp_Duplicate(t *testing.T) {
	svc := &stubAuthService{
		signUp: func(ports.SignUpInput) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/api/v1/auth/signup",
		`{"email":"a@b.com","password":"Abcdef1!"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeBody(t, rec); env.Message != "User already exists" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{
		login: func(email, password string) (*ports.TokenPair, *domain.User, error) {
			if email != "a@b.com" || password != "Abcdef1!" {
				t.Fatalf("unexpected credentials: %q %q", email, password)
			}
			return testPair(), testUser(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodGet, "/api/v1/auth/login?email=a@b.com&password=Abcdef1%21", "")
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := decodeBody(t, rec); env.Message != "Login successful" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestAuthHandler_Login_MissingParams(t *testing.T) {
	svc := &stubAuthService{
		login: func(email, password string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.NewValidationError("Email and password are required")
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodGet, "/api/v1/auth/login", "")
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeBody(t, rec); env.Message != "Missing parameters" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		login: func(string, string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodGet, "/api/v1/auth/login?email=a@b.com&password=no", "")
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env := decodeBody(t, rec); env.Message != "Invalid credentials" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestAuthHandler_GoogleAuth_MissingToken(t *testing.T) {
	called := false
	svc := &stubAuthService{
		googleAuth: func(string) (*ports.TokenPair, *domain.User, error) {
			called = true
			return nil, nil, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/api/v1/auth/google", `{}`)
	if err := h.GoogleAuth(c); err != nil {
		t.Fatalf("GoogleAuth returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if called {
		t.Fatalf("service must not be called without a token")
	}
}

func TestAuthHandler_GoogleAuth_BadAssertion(t *testing.T) {
	svc := &stubAuthService{
		googleAuth: func(string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidAssertion
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/api/v1/auth/google", `{"token":"bad"}`)
	if err := h.GoogleAuth(c); err != nil {
		t.Fatalf("GoogleAuth returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeBody(t, rec); env.Message != "Invalid credentials" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestAuthHandler_GoogleAuth_Success(t *testing.T) {
	svc := &stubAuthService{
		googleAuth: func(assertion string) (*ports.TokenPair, *domain.User, error) {
			if assertion != "google-id-token" {
				t.Fatalf("unexpected assertion: %q", assertion)
			}
			return testPair(), testUser(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/api/v1/auth/google", `{"token":"google-id-token"}`)
	if err := h.GoogleAuth(c); err != nil {
		t.Fatalf("GoogleAuth returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeBody(t, rec)
	if env.Message != "Signup successful" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
	if dataField(t, env, "sessionToken") == nil || dataField(t, env, "refreshToken") == nil {
		t.Fatalf("missing tokens in data: %v", env.Data)
	}
}

func TestAuthHandler_RefreshSession(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  string
		refreshErr  error
		wantCode    int
		wantMessage string
		wantCalled  bool
	}{
		{
			name:        "missing header",
			wantCode:    http.StatusUnauthorized,
			wantMessage: "Authorization header is missing",
		},
		{
			name:        "header without token",
			authHeader:  "Bearer",
			wantCode:    http.StatusUnauthorized,
			wantMessage: "Refresh token is required",
		},
		{
			name:        "expired token",
			authHeader:  "Bearer stale",
			refreshErr:  domain.ErrTokenExpired,
			wantCode:    http.StatusUnauthorized,
			wantMessage: "Refresh token expired",
			wantCalled:  true,
		},
		{
			name:        "invalid token",
			authHeader:  "Bearer garbage",
			refreshErr:  domain.ErrTokenInvalid,
			wantCode:    http.StatusUnauthorized,
			wantMessage: "Invalid refresh token",
			wantCalled:  true,
		},
		{
			name:        "user gone",
			authHeader:  "Bearer orphan",
			refreshErr:  domain.ErrUserNotFound,
			wantCode:    http.StatusUnauthorized,
			wantMessage: "User associated with the refresh token not found",
			wantCalled:  true,
		},
		{
			name:        "success",
			authHeader:  "Bearer good",
			wantCode:    http.StatusCreated,
			wantMessage: "Token generated successfully",
			wantCalled:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAuthService{
				refresh: func(refreshToken string) (*ports.TokenPair, error) {
					if tc.refreshErr != nil {
						return nil, tc.refreshErr
					}
					return &ports.TokenPair{SessionToken: "new-session", ExpiresIn: time.Now().Unix() + 3600}, nil
				},
			}
			h := NewAuthHandler(svc)

			c, rec := newAuthContext(http.MethodGet, "/api/v1/auth/refresh-session", "")
			if tc.authHeader != "" {
				c.Request().Header.Set(echo.HeaderAuthorization, tc.authHeader)
			}
			if err := h.RefreshSession(c); err != nil {
				t.Fatalf("RefreshSession returned error: %v", err)
			}

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			env := decodeBody(t, rec)
			if env.Message != tc.wantMessage {
				t.Fatalf("expected message %q, got %q", tc.wantMessage, env.Message)
			}
			if (svc.refreshCalls > 0) != tc.wantCalled {
				t.Fatalf("unexpected service calls: %d", svc.refreshCalls)
			}
			if tc.wantCode == http.StatusCreated {
				if dataField(t, env, "sessionToken") != "new-session" {
					t.Fatalf("missing session token in data: %v", env.Data)
				}
				if _, rotated := env.Data.(map[string]any)["refreshToken"]; rotated {
					t.Fatalf("refresh token must not be rotated")
				}
			}
		})
	}
}
