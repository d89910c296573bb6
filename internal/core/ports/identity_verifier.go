package ports

import "context"

// VerifiedProfile is the profile extracted from a successfully verified
// identity-provider assertion.
type VerifiedProfile struct {
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier validates an externally issued identity assertion. Every
// failure mode collapses into domain.ErrInvalidAssertion so callers cannot
// leak verification internals.
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (*VerifiedProfile, error)
}
