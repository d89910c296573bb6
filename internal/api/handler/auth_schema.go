package handler

import "github.com/taskhive/task-api/internal/core/domain"

// --- Request / Response types ---

type googleAuthRequest struct {
	Token string `json:"token"`
}

type signUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// authData is the envelope payload for every flow that issues tokens.
// RefreshToken is absent on session refresh; User is absent as well.
type authData struct {
	RefreshToken string       `json:"refreshToken,omitempty"`
	SessionToken string       `json:"sessionToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         *domain.User `json:"user,omitempty"`
}
