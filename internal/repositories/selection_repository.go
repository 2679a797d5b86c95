package repositories

import "context"

// SelectionRepository persists the active-profile pointer, namespaced by
// account id so switching accounts never leaks a stale selection. The pointer
// is the only durable client-session state this service keeps outside the
// row store.
type SelectionRepository interface {
	// Get returns the persisted profile id for the account, or "" when none
	// has been recorded.
	Get(ctx context.Context, accountID string) (string, error)

	Set(ctx context.Context, accountID, profileID string) error

	Clear(ctx context.Context, accountID string) error
}
