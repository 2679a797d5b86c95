package services

import (
	"context"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type SignInRequest = validator.SignInRequest
type CreateProfileRequest = validator.ProfileCreateRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type TrainingProgressRequest = validator.TrainingProgressRequest
type AccountContactRequest = validator.AccountContactRequest

// SessionState is the session store's lifecycle position.
type SessionState string

const (
	SessionUninitialized   SessionState = "uninitialized"
	SessionLoading         SessionState = "loading"
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
)

// SessionSnapshot is what session subscribers receive. Account is non-nil
// exactly when State is SessionAuthenticated.
type SessionSnapshot struct {
	State   SessionState
	Account *models.Account
}

// DirectoryState is the profile directory's lifecycle position.
type DirectoryState string

const (
	DirectoryIdle    DirectoryState = "idle"
	DirectoryLoading DirectoryState = "loading"
	DirectoryLoaded  DirectoryState = "loaded"
	DirectoryError   DirectoryState = "error"
)

// DirectorySnapshot is what directory subscribers receive.
type DirectorySnapshot struct {
	State         DirectoryState
	Profiles      []*models.Profile
	ActiveProfile *models.Profile
}

// CollectionStatus tracks each personalization collection independently.
type CollectionStatus string

const (
	CollectionLoading CollectionStatus = "loading"
	CollectionLoaded  CollectionStatus = "loaded"
	CollectionError   CollectionStatus = "error"
)

// SessionView is the read model handlers render for GET /session.
type SessionView struct {
	Gate          GateState         `json:"gate"`
	Account       *models.Account   `json:"account,omitempty"`
	Profiles      []*models.Profile `json:"profiles,omitempty"`
	ActiveProfile *models.Profile   `json:"active_profile,omitempty"`
}

// ===== SERVICE INTERFACES =====

// SessionStore owns the authenticated session and the current account.
type SessionStore interface {
	// SignIn authenticates and resolves the subscriber account. On
	// ErrAccountLookupFailed the provider session is revoked before return.
	SignIn(ctx context.Context, email, password string) error

	// SignOut clears local session state first; remote revocation failure
	// is logged, never surfaced.
	SignOut(ctx context.Context) error

	// CurrentAccount returns the resolved account, or nil. Non-blocking.
	CurrentAccount() *models.Account

	State() SessionState
	AccessToken() string

	// Subscribe registers a listener invoked synchronously, in registration
	// order, as part of every state mutation. Returns an unsubscribe func.
	Subscribe(fn func(SessionSnapshot)) func()
}

// ProfileDirectory owns the account's profile collection and the active
// selection.
type ProfileDirectory interface {
	// FetchProfiles loads the account's visible profiles, auto-provisions a
	// default when applicable and restores the persisted selection. Fails
	// soft: on error the collection is empty and state is DirectoryError.
	FetchProfiles(ctx context.Context) error

	CreateProfile(ctx context.Context, req *CreateProfileRequest) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*models.Profile, error)

	// RemoveProfile deactivates (default) or hard-deletes a profile. Hard
	// deletion also removes the profile's personalization rows.
	RemoveProfile(ctx context.Context, id string, hard bool) error

	// SelectProfile activates a profile from the loaded collection and
	// persists the choice. Ids not in the collection are a silent no-op.
	SelectProfile(ctx context.Context, id string) error

	Profiles() []*models.Profile
	ActiveProfile() *models.Profile
	State() DirectoryState

	// Reset returns the directory to idle with an empty collection.
	Reset()

	Subscribe(fn func(DirectorySnapshot)) func()
}

// PersonalizationStore owns the active profile's bookmarks and training
// progress.
type PersonalizationStore interface {
	// LoadForProfile loads both collections for the given profile. Results
	// arriving after the profile changed again are discarded.
	LoadForProfile(ctx context.Context, profileID string)

	// ToggleBookmark optimistically flips the bookmark and reverts the flip
	// when the remote write fails.
	ToggleBookmark(ctx context.Context, resourceID string) error

	// UpsertTrainingProgress patches locally and upserts remotely. No
	// rollback: progress is best-effort and server-side monotonic.
	UpsertTrainingProgress(ctx context.Context, req *TrainingProgressRequest) error

	Bookmarks() ([]*models.Bookmark, CollectionStatus)
	TrainingProgress() ([]*models.TrainingProgress, CollectionStatus)

	// Clear empties both collections and resets statuses to loading.
	Clear()
}

// ReportService builds account-level exports.
type ReportService interface {
	// TrainingProgressWorkbook renders the account's training progress as
	// an xlsx workbook.
	TrainingProgressWorkbook(ctx context.Context, accountID string) (*excelize.File, error)
}

// AccountService exposes the one account mutation this portal owns.
type AccountService interface {
	UpdateContact(ctx context.Context, accountID string, req *AccountContactRequest) (*models.Account, error)
}
