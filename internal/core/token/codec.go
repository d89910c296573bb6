// Package token signs and verifies the self-contained bearer tokens used by
// the API. Tokens are HS256 JWTs carrying the account id as subject plus a
// kind discriminator; the server keeps no session table.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/task-api/internal/core/domain"
)

// Kind discriminates what a token may be used for.
type Kind string

const (
	KindSession Kind = "session"
	KindRefresh Kind = "refresh"
	KindGuest   Kind = "guest"
	// KindMagic is reserved for a passwordless flow that has no issuance
	// path yet. MagicTTL exists so the policy is in one place.
	KindMagic Kind = "magic"
)

// Fixed expiry policy.
const (
	SessionTTL = time.Hour
	RefreshTTL = 365 * 24 * time.Hour
	GuestTTL   = 24 * time.Hour
	MagicTTL   = 2 * time.Hour
)

// Claims are the embedded token claims. Role is only present on session
// tokens; refresh and guest tokens omit it.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Kind  Kind   `json:"tokenType"`
}

// Codec signs and parses tokens with a single shared symmetric secret. It is
// stateless and performs no I/O.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign embeds an expiry of now+ttl into the claims and returns the compact
// signed token.
func (c *Codec) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token. It returns domain.ErrTokenExpired when
// the embedded expiry has passed and domain.ErrTokenInvalid for any other
// structural or signature failure.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// ExpiryUnix returns the absolute Unix timestamp a token minted now with ttl
// will expire at. Clients receive this alongside the token itself.
func ExpiryUnix(ttl time.Duration) int64 {
	return time.Now().Unix() + int64(ttl/time.Second)
}
