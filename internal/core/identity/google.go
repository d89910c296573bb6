// Package identity verifies externally issued identity assertions. The only
// provider today is Google: ID tokens are RS256 JWTs verified against
// Google's published JWK Set with the configured OAuth client ID as audience.
package identity

import (
	"context"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// Google signs ID tokens under either issuer form.
var googleIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleVerifier validates Google ID tokens. It satisfies
// ports.IdentityVerifier.
type GoogleVerifier struct {
	audience string
	keyFunc  jwt.Keyfunc
}

// NewGoogleVerifier fetches Google's JWK Set and returns a verifier bound to
// clientID as the expected audience. The key set refreshes in the background
// for the life of the process.
func NewGoogleVerifier(clientID string, log zerolog.Logger) (*GoogleVerifier, error) {
	jwks, err := keyfunc.Get(googleJWKSURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn().Err(err).Msg("google jwks background refresh failed")
		},
	})
	if err != nil {
		return nil, err
	}
	return &GoogleVerifier{audience: clientID, keyFunc: jwks.Keyfunc}, nil
}

// NewGoogleVerifierWithKeyfunc builds a verifier with a caller-supplied key
// resolver. Used by tests and deployments that pin keys locally.
func NewGoogleVerifierWithKeyfunc(clientID string, kf jwt.Keyfunc) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID, keyFunc: kf}
}

// Verify checks the assertion's signature, audience, issuer, and expiry, and
// returns the embedded profile. Every failure is reported as
// domain.ErrInvalidAssertion.
func (v *GoogleVerifier) Verify(_ context.Context, assertion string) (*ports.VerifiedProfile, error) {
	claims := &googleClaims{}
	tkn, err := jwt.ParseWithClaims(assertion, claims, v.keyFunc, jwt.WithAudience(v.audience))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidAssertion
	}

	if _, ok := googleIssuers[claims.Issuer]; !ok {
		return nil, domain.ErrInvalidAssertion
	}
	if claims.Email == "" {
		return nil, domain.ErrInvalidAssertion
	}

	return &ports.VerifiedProfile{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
