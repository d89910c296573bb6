package ports

import (
	"context"

	"github.com/taskhive/task-api/internal/core/domain"
)

// TokenPair is what an issuance flow hands back to the client: a session
// token, its absolute expiry timestamp, and optionally a refresh token.
type TokenPair struct {
	SessionToken string `json:"sessionToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// SignUpInput carries the email signup payload.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	// GoogleAuth verifies a Google ID token, creating the account on first
	// login, and issues a session + refresh token pair.
	GoogleAuth(ctx context.Context, assertion string) (*TokenPair, *domain.User, error)
	// SignUp validates email and password policy, creates a local account,
	// and issues a token pair.
	SignUp(ctx context.Context, input SignUpInput) (*TokenPair, *domain.User, error)
	// Login checks email/password credentials and issues a token pair.
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	// RefreshSession verifies a refresh token and issues a new session token
	// only; refresh tokens are not rotated.
	RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error)
	// IssueGuestToken mints a guest token and returns it with its absolute
	// expiry. No route triggers this today; it is an extension hook for
	// unauthenticated access.
	IssueGuestToken(ctx context.Context) (token string, expiresIn int64, err error)
}
