package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
	"github.com/taskhive/task-api/internal/core/token"
)

const bcryptCost = 10

// Password rules, checked in order. The first failing rule's message is
// returned verbatim.
var passwordRules = []struct {
	ok  func(string) bool
	msg string
}{
	{func(p string) bool { return len(p) >= 8 }, "Password must be at least 8 characters long"},
	{regexp.MustCompile(`[A-Z]`).MatchString, "Password must contain at least one uppercase letter"},
	{regexp.MustCompile(`[a-z]`).MatchString, "Password must contain at least one lowercase letter"},
	{regexp.MustCompile(`\d`).MatchString, "Password must contain at least one number"},
	{regexp.MustCompile(`[\W_]`).MatchString, "Password must contain at least one special character"},
}

// AuthService orchestrates account lookup/creation and token issuance for
// every login flow.
type AuthService struct {
	users    ports.UserRepository
	verifier ports.IdentityVerifier
	codec    *token.Codec
	guests   ports.GuestTracker
	logins   ports.LoginRecorder
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, verifier ports.IdentityVerifier, codec *token.Codec, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		codec:    codec,
		validate: validator.New(),
		logger:   logger,
	}
}

// WithGuestTracker wires an optional guest-token tracker.
func (s *AuthService) WithGuestTracker(t ports.GuestTracker) *AuthService {
	s.guests = t
	return s
}

// WithLoginRecorder wires an optional post-login recorder.
func (s *AuthService) WithLoginRecorder(r ports.LoginRecorder) *AuthService {
	s.logins = r
	return s
}

// GoogleAuth verifies a Google ID token and signs the caller in, creating an
// account on first login. Two concurrent first logins race on the unique
// email index; the loser re-reads the winner's account.
func (s *AuthService) GoogleAuth(ctx context.Context, assertion string) (*ports.TokenPair, *domain.User, error) {
	profile, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.createGoogleUser(ctx, profile)
		if err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	}

	pair, err := s.issueTokens(user, true)
	if err != nil {
		return nil, nil, err
	}

	s.recordLogin(user.ID)
	return pair, user, nil
}

func (s *AuthService) createGoogleUser(ctx context.Context, profile *ports.VerifiedProfile) (*domain.User, error) {
	firstName, lastName := splitName(profile.Name)
	now := time.Now().UTC()

	created, err := s.users.Create(ctx, &domain.User{
		Email:           profile.Email,
		FirstName:       firstName,
		LastName:        lastName,
		Picture:         profile.Picture,
		LoginFlow:       domain.FlowGoogle,
		Role:            domain.RoleUser,
		IsEmailVerified: true,
		LastLogged:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return s.users.FindByEmail(ctx, profile.Email)
	}
	return created, err
}

// SignUp registers a local email/password account and signs the caller in.
func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*ports.TokenPair, *domain.User, error) {
	if err := s.validate.Var(input.Email, "required,email"); err != nil {
		return nil, nil, domain.NewValidationError("Invalid email format")
	}
	for _, rule := range passwordRules {
		if !rule.ok(input.Password) {
			return nil, nil, &domain.ValidationError{Msg: rule.msg}
		}
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		PasswordHash:    string(hash),
		LoginFlow:       domain.FlowEmail,
		Role:            domain.RoleUser,
		IsEmailVerified: true,
		LastLogged:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user, true)
	if err != nil {
		return nil, nil, err
	}

	return pair, user, nil
}

// Login checks email/password credentials. A missing account and a wrong
// password both report the same generic error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	if email == "" || password == "" {
		return nil, nil, domain.NewValidationError("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user, true)
	if err != nil {
		return nil, nil, err
	}

	s.recordLogin(user.ID)
	return pair, user, nil
}

// RefreshSession verifies a refresh token and mints a new session token.
// Refresh tokens are not rotated: the response carries no refresh token.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Kind != token.KindRefresh {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(user, false)
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// IssueGuestToken mints a guest token carrying no account. The token id is
// recorded in the guest tracker when one is wired.
func (s *AuthService) IssueGuestToken(ctx context.Context) (string, int64, error) {
	id := randomTokenID()
	signed, err := s.codec.Sign(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id, ID: id},
		Role:             domain.RoleUser,
		Kind:             token.KindGuest,
	}, token.GuestTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("guest token signing failed")
		return "", 0, domain.ErrTokenGeneration
	}

	if s.guests != nil {
		if err := s.guests.Record(ctx, id, token.GuestTTL); err != nil {
			s.logger.Warn().Err(err).Str("token_id", id).Msg("guest token tracking failed")
		}
	}

	return signed, token.ExpiryUnix(token.GuestTTL), nil
}

// issueTokens mints the session token and, when requested, the refresh token
// for a user. Role defaults to the base role when the record has none.
func (s *AuthService) issueTokens(user *domain.User, includeRefresh bool) (*ports.TokenPair, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)

	session, err := s.codec.Sign(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		Role:             role,
		Email:            user.Email,
		Name:             name,
		Kind:             token.KindSession,
	}, token.SessionTTL)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("session token signing failed")
		return nil, domain.ErrTokenGeneration
	}

	pair := &ports.TokenPair{
		SessionToken: session,
		ExpiresIn:    token.ExpiryUnix(token.SessionTTL),
	}

	if includeRefresh {
		refresh, err := s.codec.Sign(token.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
			Email:            user.Email,
			Name:             name,
			Kind:             token.KindRefresh,
		}, token.RefreshTTL)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("refresh token signing failed")
			return nil, domain.ErrTokenGeneration
		}
		pair.RefreshToken = refresh
	}

	return pair, nil
}

func (s *AuthService) recordLogin(userID string) {
	if s.logins != nil {
		s.logins.RecordLogin(userID)
	}
}

// splitName breaks a display name at the first space: everything before is
// the first name, the remainder (possibly empty) the last name.
func splitName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func randomTokenID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
