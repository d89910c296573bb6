package domain

import (
	"errors"
	"fmt"
	"time"
)

// Roles recognised by the system. There is a single tier today; the level
// table keeps the authorization comparison extensible.
const (
	RoleUser = "user"
)

// RoleLevels maps a role name to its numeric rank. Authorization compares
// levels, never role names, so a new tier only needs a new entry here.
var RoleLevels = map[string]int{
	RoleUser: 2,
}

// IsValidRole reports whether role is one of the recognised role names.
func IsValidRole(role string) bool {
	_, ok := RoleLevels[role]
	return ok
}

// LoginFlow records which path created an account.
type LoginFlow string

const (
	FlowGoogle LoginFlow = "google"
	FlowEmail  LoginFlow = "email"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidAssertion = errors.New("invalid user detected")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token is not valid")
var ErrTokenGeneration = errors.New("error generating tokens")
var ErrRoleConfig = errors.New("invalid role configuration")

// ValidationError carries the first failing input rule verbatim so handlers
// can surface it as the response message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// User models an account created through Google sign-in or email signup.
// PasswordHash is empty exactly when LoginFlow is FlowGoogle.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	Picture         string    `json:"picture,omitempty"`
	Mobile          string    `json:"mobile,omitempty"`
	PasswordHash    string    `json:"-"`
	LoginFlow       LoginFlow `json:"login_flow"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	IsPhoneVerified bool      `json:"is_phone_verified"`
	BlockUser       bool      `json:"block_user"`
	LastLogged      time.Time `json:"last_logged"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
