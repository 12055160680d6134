package model

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrNotAuthenticated is returned by operations that require a session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionExpired is returned when a stored token is past its expiry.
	ErrSessionExpired = errors.New("session expired")

	// ErrOrderNotFound is returned when an order ID is unknown locally.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned for a non-forward status change.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrKeyNotFound is returned by the device store for missing keys.
	ErrKeyNotFound = errors.New("key not found")

	// ErrRouterNotReady is returned when a navigation is requested before
	// the router has mounted its initial route (cold start).
	ErrRouterNotReady = errors.New("router not ready")
)

// Error codes carried in control API error responses.
const (
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeValidation         = "VALIDATION_ERROR"
)
