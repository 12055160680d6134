package model

import "fmt"

// Roles the backend assigns to admin users. Route visibility decisions key
// off these values.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Profile is the cached admin user info. It is fetched after token restore or
// sign-in and overwritten on each fetch.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// Session is the current authentication state.
//
// Invariants: Authenticated() is true exactly when Token is non-empty, and
// User is only populated while Token is set.
type Session struct {
	Token string   `json:"-"`
	User  *Profile `json:"user,omitempty"`
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// AuthError wraps a failure from a user-initiated authentication flow.
// Background flows (restore) never return it; they degrade to signed-out.
type AuthError struct {
	Op  string // "login", "profile"
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
