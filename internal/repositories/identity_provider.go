package repositories

import "context"

// Identity is the provider-side view of a signed-in principal. ID matches the
// account row's primary key in the row store.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AccessToken string `json:"access_token"`
}

// IdentityProvider abstracts the external identity service. Implementations
// must return ErrInvalidCredentials-compatible errors via the services layer;
// at this level a failed sign-in is just an error the caller classifies.
type IdentityProvider interface {
	// SignIn exchanges credentials for a verified identity and access token.
	SignIn(ctx context.Context, email, password string) (*Identity, error)

	// SignOut invalidates the provider-side session for the token. Best
	// effort; local session teardown proceeds regardless of the result.
	SignOut(ctx context.Context, accessToken string) error

	// ParseToken validates a bearer token and returns the identity it
	// asserts. Used by the HTTP middleware on every authenticated request.
	ParseToken(ctx context.Context, accessToken string) (*Identity, error)
}
