package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-api/internal/api/metrics"
	"github.com/taskhive/task-api/internal/api/response"
	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// GoogleAuth signs a user in with a Google ID token, creating the account on
// first login.
//
// @Summary      Google sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleAuthRequest  true  "Google ID token"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/google [post]
func (h *AuthHandler) GoogleAuth(c echo.Context) error {
	var req googleAuthRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return response.Error(c, http.StatusBadRequest, "Invalid credentials", "A Google ID token is required.")
	}

	pair, user, err := h.authService.GoogleAuth(c.Request().Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAssertion) {
			return response.Error(c, http.StatusBadRequest, "Invalid credentials", "Invalid user detected. Please try again.")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(domain.FlowGoogle)).Inc()
	countIssued(pair)
	return response.JSON(c, http.StatusCreated, "success",
		"Signup successful", "User signed up successfully and tokens generated",
		authData{
			RefreshToken: pair.RefreshToken,
			SessionToken: pair.SessionToken,
			ExpiresIn:    pair.ExpiresIn,
			User:         user,
		})
}

// SignUp registers a local email/password account.
//
// @Summary      Email signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Signup details"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid payload", "Request body could not be parsed.")
	}

	pair, user, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return response.Error(c, http.StatusBadRequest, ve.Msg, "Please check the error below")
		case errors.Is(err, domain.ErrUserExists):
			return response.Error(c, http.StatusBadRequest, "User already exists", "User with this email already exists.")
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues(string(domain.FlowEmail)).Inc()
	countIssued(pair)
	return response.JSON(c, http.StatusCreated, "success",
		"Signup successful", "User signed up successfully and tokens generated",
		authData{
			RefreshToken: pair.RefreshToken,
			SessionToken: pair.SessionToken,
			ExpiresIn:    pair.ExpiresIn,
			User:         user,
		})
}

// Login authenticates an email/password account.
//
// @Summary      Email login
// @Tags         auth
// @Produce      json
// @Param        email     query     string  true  "Account email"
// @Param        password  query     string  true  "Account password"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /auth/login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	email := c.QueryParam("email")
	password := c.QueryParam("password")

	pair, user, err := h.authService.Login(c.Request().Context(), email, password)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return response.Error(c, http.StatusBadRequest, "Missing parameters", "Email and password are required.")
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Same message whether the email or the password was wrong.
			return response.Error(c, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect.")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(domain.FlowEmail)).Inc()
	countIssued(pair)
	return response.JSON(c, http.StatusOK, "success",
		"Login successful", "User logged in successfully.",
		authData{
			RefreshToken: pair.RefreshToken,
			SessionToken: pair.SessionToken,
			ExpiresIn:    pair.ExpiresIn,
			User:         user,
		})
}

// RefreshSession exchanges a refresh token for a new session token. The
// refresh token arrives in the standard Authorization header, unlike session
// tokens which use x-auth-token.
//
// @Summary      Refresh session token
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer refresh token"
// @Success      201  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /auth/refresh-session [get]
func (h *AuthHandler) RefreshSession(c echo.Context) error {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return response.JSON(c, http.StatusUnauthorized, "error",
			"Authorization header is missing", "No authorization header was provided in the request", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return response.JSON(c, http.StatusUnauthorized, "error",
			"Refresh token is required", "No refresh token was provided in the request headers", nil)
	}

	pair, err := h.authService.RefreshSession(c.Request().Context(), parts[1])
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			return response.JSON(c, http.StatusUnauthorized, "error",
				"Refresh token expired", "The refresh token has expired. Please request a new token.", nil)
		case errors.Is(err, domain.ErrTokenInvalid):
			return response.JSON(c, http.StatusUnauthorized, "error",
				"Invalid refresh token", "The refresh token is invalid or could not be verified.", nil)
		case errors.Is(err, domain.ErrUserNotFound):
			return response.JSON(c, http.StatusUnauthorized, "error",
				"User associated with the refresh token not found", "No user was found for the provided refresh token.", nil)
		}
		return err
	}

	metrics.RefreshesTotal.Inc()
	countIssued(pair)
	return response.JSON(c, http.StatusCreated, "success",
		"Token generated successfully", "New session tokens have been generated.",
		authData{
			SessionToken: pair.SessionToken,
			ExpiresIn:    pair.ExpiresIn,
		})
}

func countIssued(pair *ports.TokenPair) {
	metrics.TokensIssuedTotal.WithLabelValues("session").Inc()
	if pair.RefreshToken != "" {
		metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	}
}
