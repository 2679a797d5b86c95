package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes with errors.Is.
var (
	// ErrInvalidCredentials means the identity provider rejected the
	// credential pair. Surfaced to the caller, never retried.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLookupFailed means the identity authenticated but no
	// subscriber account row matches it. The session is torn down before
	// this is returned.
	ErrAccountLookupFailed = errors.New("account lookup failed")

	// ErrNoSession means the operation requires an authenticated session.
	ErrNoSession = errors.New("no authenticated session")

	// ErrNoActiveProfile means the operation requires a selected profile.
	ErrNoActiveProfile = errors.New("no active profile")

	ErrProfileNotFound  = errors.New("profile not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("access denied")

	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
