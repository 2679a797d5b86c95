package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/RxPortal-2025/member-portal/internal/events"
	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

type directorySubscriber struct {
	id int
	fn func(DirectorySnapshot)
}

type profileDirectory struct {
	repo           repositories.Repository
	session        SessionStore
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	mu       sync.Mutex
	state    DirectoryState
	profiles []*models.Profile
	active   *models.Profile

	// at most one auto-provision attempt per session
	provisionAttempted bool

	subscribers []directorySubscriber
	nextSubID   int
}

// NewProfileDirectory creates an idle directory bound to the session store's
// current account.
func NewProfileDirectory(repo repositories.Repository, session SessionStore, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ProfileDirectory {
	return &profileDirectory{
		repo:           repo,
		session:        session,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		state:          DirectoryIdle,
	}
}

// ===== FETCH AND SELECTION RESTORE =====

func (d *profileDirectory) FetchProfiles(ctx context.Context) error {
	account := d.session.CurrentAccount()
	if account == nil {
		return ErrNoSession
	}

	d.transition(func() {
		d.state = DirectoryLoading
	})

	profiles, err := d.repo.Profile().ListByAccount(ctx, nil, account.ID, repositories.ProfileFilters{})
	if err != nil {
		d.failSoft(ctx, account.ID, err)
		return fmt.Errorf("fetch profiles: %w", err)
	}

	// Auto-provision one default profile for organization accounts that
	// have none yet. One attempt per session; a failed attempt degrades to
	// the no-profiles path instead of looping.
	if len(profiles) == 0 && account.OrganizationName != "" && d.claimProvisionAttempt() {
		provisioned, provErr := d.provisionDefaultProfile(ctx, account)
		if provErr != nil {
			d.logger.WarnContext(ctx, "default profile provisioning failed",
				"account_id", account.ID, "error", provErr)
		} else {
			profiles = append(profiles, provisioned)
		}
	}

	// Discard the result if the session moved to a different account while
	// the load was in flight
	if current := d.session.CurrentAccount(); current == nil || current.ID != account.ID {
		d.logger.InfoContext(ctx, "discarding profile load for superseded account",
			"account_id", account.ID)
		return nil
	}

	active := d.restoreSelection(ctx, account.ID, profiles)

	d.transition(func() {
		d.state = DirectoryLoaded
		d.profiles = profiles
		d.active = active
	})

	return nil
}

// restoreSelection picks the active profile for a freshly loaded collection:
// the persisted choice when still present, else the oldest profile (writing
// that fallback back), else none.
func (d *profileDirectory) restoreSelection(ctx context.Context, accountID string, profiles []*models.Profile) *models.Profile {
	persisted, err := d.repo.Selection().Get(ctx, accountID)
	if err != nil {
		d.logger.WarnContext(ctx, "selection lookup failed", "account_id", accountID, "error", err)
		persisted = ""
	}

	if persisted != "" {
		for _, p := range profiles {
			if p.ID == persisted {
				return p
			}
		}
	}

	if len(profiles) > 0 {
		fallback := profiles[0]
		if err := d.repo.Selection().Set(ctx, accountID, fallback.ID); err != nil {
			d.logger.WarnContext(ctx, "selection persist failed", "account_id", accountID, "error", err)
		}
		return fallback
	}

	if persisted != "" {
		if err := d.repo.Selection().Clear(ctx, accountID); err != nil {
			d.logger.WarnContext(ctx, "selection clear failed", "account_id", accountID, "error", err)
		}
	}
	return nil
}

func (d *profileDirectory) provisionDefaultProfile(ctx context.Context, account *models.Account) (*models.Profile, error) {
	profile := &models.Profile{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		FirstName: account.OrganizationName,
		LastName:  "Pharmacy",
		Role:      models.RolePharmacy,
		Active:    true,
	}

	if err := d.repo.Profile().Create(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("provision default profile: %w", err)
	}

	d.publish(ctx, events.EventProfileCreated, map[string]interface{}{
		"account_id":  account.ID,
		"profile_id":  profile.ID,
		"provisioned": true,
	})
	d.logger.InfoContext(ctx, "provisioned default profile",
		"account_id", account.ID, "profile_id", profile.ID)

	return profile, nil
}

// claimProvisionAttempt reports whether this call claimed the one provision
// attempt the session gets; later calls see the flag set and get false.
func (d *profileDirectory) claimProvisionAttempt() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provisionAttempted {
		return false
	}
	d.provisionAttempted = true
	return true
}

// ===== PROFILE CRUD =====

func (d *profileDirectory) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*models.Profile, error) {
	account := d.session.CurrentAccount()
	if account == nil {
		return nil, ErrNoSession
	}

	if errs := d.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}

	profile := &models.Profile{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
	}
	if req.Credentials != nil {
		raw, err := json.Marshal(req.Credentials)
		if err != nil {
			return nil, fmt.Errorf("%w: credentials: %v", ErrValidationFailed, err)
		}
		profile.Credentials = raw
	}

	if err := d.repo.Profile().Create(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	// A newly created profile becomes the active one
	if err := d.repo.Selection().Set(ctx, account.ID, profile.ID); err != nil {
		d.logger.WarnContext(ctx, "selection persist failed", "account_id", account.ID, "error", err)
	}

	d.transition(func() {
		d.profiles = append(d.profiles, profile)
		d.active = profile
		if d.state == DirectoryIdle {
			d.state = DirectoryLoaded
		}
	})

	d.publish(ctx, events.EventProfileCreated, map[string]interface{}{
		"account_id": account.ID,
		"profile_id": profile.ID,
		"role":       profile.Role,
	})
	d.publish(ctx, events.EventProfileSelected, map[string]interface{}{
		"account_id": account.ID,
		"profile_id": profile.ID,
	})

	return profile, nil
}

func (d *profileDirectory) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*models.Profile, error) {
	account := d.session.CurrentAccount()
	if account == nil {
		return nil, ErrNoSession
	}

	if errs := d.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}

	if d.findProfile(id) == nil {
		return nil, ErrProfileNotFound
	}

	update := repositories.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if req.Credentials != nil {
		raw, err := json.Marshal(req.Credentials)
		if err != nil {
			return nil, fmt.Errorf("%w: credentials: %v", ErrValidationFailed, err)
		}
		update.Credentials = raw
	}

	updated, err := d.repo.Profile().Update(ctx, nil, id, update)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	d.transition(func() {
		for i, p := range d.profiles {
			if p.ID == id {
				d.profiles[i] = updated
				break
			}
		}
		if d.active != nil && d.active.ID == id {
			d.active = updated
		}
	})

	d.publish(ctx, events.EventProfileUpdated, map[string]interface{}{
		"account_id": account.ID,
		"profile_id": id,
	})

	return updated, nil
}

func (d *profileDirectory) RemoveProfile(ctx context.Context, id string, hard bool) error {
	account := d.session.CurrentAccount()
	if account == nil {
		return ErrNoSession
	}

	if d.findProfile(id) == nil {
		return ErrProfileNotFound
	}

	if hard {
		// Personalization rows do not cascade; remove them with the profile
		err := d.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
			if err := txRepo.Bookmark().DeleteByProfile(ctx, nil, id); err != nil {
				return err
			}
			if err := txRepo.TrainingProgress().DeleteByProfile(ctx, nil, id); err != nil {
				return err
			}
			return txRepo.Profile().Delete(ctx, nil, id)
		})
		if err != nil {
			return fmt.Errorf("remove profile: %w", err)
		}
	} else {
		if err := d.repo.Profile().Deactivate(ctx, nil, id); err != nil {
			return fmt.Errorf("remove profile: %w", err)
		}
	}

	var wasActive bool
	var reselected *models.Profile
	d.transition(func() {
		for i, p := range d.profiles {
			if p.ID == id {
				d.profiles = append(d.profiles[:i], d.profiles[i+1:]...)
				break
			}
		}
		if d.active != nil && d.active.ID == id {
			wasActive = true
			if len(d.profiles) > 0 {
				d.active = d.profiles[0]
				reselected = d.active
			} else {
				d.active = nil
			}
		}
	})

	if wasActive {
		if reselected != nil {
			if err := d.repo.Selection().Set(ctx, account.ID, reselected.ID); err != nil {
				d.logger.WarnContext(ctx, "selection persist failed", "account_id", account.ID, "error", err)
			}
			d.publish(ctx, events.EventProfileSelected, map[string]interface{}{
				"account_id": account.ID,
				"profile_id": reselected.ID,
			})
		} else {
			if err := d.repo.Selection().Clear(ctx, account.ID); err != nil {
				d.logger.WarnContext(ctx, "selection clear failed", "account_id", account.ID, "error", err)
			}
		}
	}

	d.publish(ctx, events.EventProfileRemoved, map[string]interface{}{
		"account_id": account.ID,
		"profile_id": id,
		"hard":       hard,
	})

	return nil
}

func (d *profileDirectory) SelectProfile(ctx context.Context, id string) error {
	account := d.session.CurrentAccount()
	if account == nil {
		return ErrNoSession
	}

	profile := d.findProfile(id)
	if profile == nil {
		// Ids outside the loaded collection are ignored rather than
		// erroring; stale clients re-sync on the next fetch
		return nil
	}

	if err := d.repo.Selection().Set(ctx, account.ID, id); err != nil {
		return fmt.Errorf("persist selection: %w", err)
	}

	d.transition(func() {
		d.active = profile
	})

	d.publish(ctx, events.EventProfileSelected, map[string]interface{}{
		"account_id": account.ID,
		"profile_id": id,
	})

	return nil
}

// ===== READ ACCESS =====

func (d *profileDirectory) Profiles() []*models.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*models.Profile, len(d.profiles))
	copy(out, d.profiles)
	return out
}

func (d *profileDirectory) ActiveProfile() *models.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *profileDirectory) State() DirectoryState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *profileDirectory) Reset() {
	d.transition(func() {
		d.state = DirectoryIdle
		d.profiles = nil
		d.active = nil
		d.provisionAttempted = false
	})
}

// ===== SUBSCRIPTIONS =====

func (d *profileDirectory) Subscribe(fn func(DirectorySnapshot)) func() {
	d.mu.Lock()
	id := d.nextSubID
	d.nextSubID++
	d.subscribers = append(d.subscribers, directorySubscriber{id: id, fn: fn})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, sub := range d.subscribers {
			if sub.id == id {
				d.subscribers = append(d.subscribers[:i], d.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (d *profileDirectory) transition(mutate func()) {
	d.mu.Lock()
	mutate()
	snapshot := DirectorySnapshot{
		State:         d.state,
		Profiles:      make([]*models.Profile, len(d.profiles)),
		ActiveProfile: d.active,
	}
	copy(snapshot.Profiles, d.profiles)
	subs := make([]directorySubscriber, len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snapshot)
	}
}

func (d *profileDirectory) failSoft(ctx context.Context, accountID string, err error) {
	d.logger.ErrorContext(ctx, "profile fetch failed", "account_id", accountID, "error", err)
	d.transition(func() {
		d.state = DirectoryError
		d.profiles = nil
		d.active = nil
	})
}

func (d *profileDirectory) findProfile(id string) *models.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.profiles {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (d *profileDirectory) publish(ctx context.Context, eventType string, data interface{}) {
	if d.eventPublisher == nil {
		return
	}
	if err := d.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		d.logger.WarnContext(ctx, "event publish failed", "event_type", eventType, "error", err)
	}
}
