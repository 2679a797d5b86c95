package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== MOCK SUB-REPOSITORIES =====

type mockAccountRepo struct {
	getByIDFn       func(ctx context.Context, id string) (*models.Account, error)
	getByEmailFn    func(ctx context.Context, email string) (*models.Account, error)
	updateContactFn func(ctx context.Context, id string, update repositories.AccountContactUpdate) (*models.Account, error)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (m *mockAccountRepo) UpdateContact(ctx context.Context, id string, update repositories.AccountContactUpdate) (*models.Account, error) {
	if m.updateContactFn != nil {
		return m.updateContactFn(ctx, id, update)
	}
	return nil, gorm.ErrRecordNotFound
}

type mockProfileRepo struct {
	mu      sync.Mutex
	created []*models.Profile
	deleted []string

	createFn        func(ctx context.Context, profile *models.Profile) error
	listByAccountFn func(ctx context.Context, accountID string, filters repositories.ProfileFilters) ([]*models.Profile, error)
	updateFn        func(ctx context.Context, id string, update repositories.ProfileUpdate) (*models.Profile, error)
	deactivateFn    func(ctx context.Context, id string) error
}

func (m *mockProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, profile); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.created = append(m.created, profile)
	m.mu.Unlock()
	return nil
}

func (m *mockProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID string, filters repositories.ProfileFilters) ([]*models.Profile, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(ctx, accountID, filters)
	}
	return nil, nil
}

func (m *mockProfileRepo) Update(ctx context.Context, tx *gorm.DB, id string, update repositories.ProfileUpdate) (*models.Profile, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, update)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Deactivate(ctx context.Context, tx *gorm.DB, id string) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, id)
	}
	return nil
}

func (m *mockProfileRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()
	return nil
}

func (m *mockProfileRepo) CountByAccount(ctx context.Context, tx *gorm.DB, accountID string) (int64, error) {
	return 0, nil
}

func (m *mockProfileRepo) createdProfiles() []*models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Profile, len(m.created))
	copy(out, m.created)
	return out
}

type mockBookmarkRepo struct {
	mu              sync.Mutex
	createCalls     []*models.Bookmark
	deleteCalls     [][2]string
	profilesCleared []string

	createFn        func(ctx context.Context, bookmark *models.Bookmark) error
	deleteFn        func(ctx context.Context, profileID, resourceID string) error
	listByProfileFn func(ctx context.Context, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error)
}

func (m *mockBookmarkRepo) Create(ctx context.Context, tx *gorm.DB, bookmark *models.Bookmark) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, bookmark); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.createCalls = append(m.createCalls, bookmark)
	m.mu.Unlock()
	return nil
}

func (m *mockBookmarkRepo) DeleteByProfileAndResource(ctx context.Context, tx *gorm.DB, profileID, resourceID string) error {
	if m.deleteFn != nil {
		if err := m.deleteFn(ctx, profileID, resourceID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, [2]string{profileID, resourceID})
	m.mu.Unlock()
	return nil
}

func (m *mockBookmarkRepo) ListByProfile(ctx context.Context, tx *gorm.DB, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error) {
	if m.listByProfileFn != nil {
		return m.listByProfileFn(ctx, profileID, filters)
	}
	return nil, nil
}

func (m *mockBookmarkRepo) Exists(ctx context.Context, tx *gorm.DB, profileID, resourceID string) (bool, error) {
	return false, nil
}

func (m *mockBookmarkRepo) DeleteByProfile(ctx context.Context, tx *gorm.DB, profileID string) error {
	m.mu.Lock()
	m.profilesCleared = append(m.profilesCleared, profileID)
	m.mu.Unlock()
	return nil
}

type mockProgressRepo struct {
	mu              sync.Mutex
	upsertCalls     []*models.TrainingProgress
	profilesCleared []string

	upsertFn        func(ctx context.Context, progress *models.TrainingProgress) error
	listByProfileFn func(ctx context.Context, profileID string, filters repositories.ProgressFilters) ([]*models.TrainingProgress, error)
	listByAccountFn func(ctx context.Context, accountID string) ([]*models.TrainingProgress, error)
	statsFn         func(ctx context.Context, accountID string) (*repositories.AccountTrainingStats, error)
}

func (m *mockProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, progress *models.TrainingProgress) error {
	if m.upsertFn != nil {
		if err := m.upsertFn(ctx, progress); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.upsertCalls = append(m.upsertCalls, progress)
	m.mu.Unlock()
	return nil
}

func (m *mockProgressRepo) GetByProfileAndModule(ctx context.Context, tx *gorm.DB, profileID, moduleID string) (*models.TrainingProgress, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepo) ListByProfile(ctx context.Context, tx *gorm.DB, profileID string, filters repositories.ProgressFilters) ([]*models.TrainingProgress, error) {
	if m.listByProfileFn != nil {
		return m.listByProfileFn(ctx, profileID, filters)
	}
	return nil, nil
}

func (m *mockProgressRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID string) ([]*models.TrainingProgress, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(ctx, accountID)
	}
	return nil, nil
}

func (m *mockProgressRepo) GetAccountStats(ctx context.Context, tx *gorm.DB, accountID string) (*repositories.AccountTrainingStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, accountID)
	}
	return &repositories.AccountTrainingStats{}, nil
}

func (m *mockProgressRepo) DeleteByProfile(ctx context.Context, tx *gorm.DB, profileID string) error {
	m.mu.Lock()
	m.profilesCleared = append(m.profilesCleared, profileID)
	m.mu.Unlock()
	return nil
}

// mockSelectionRepo keeps the pointer in memory and records writes.
type mockSelectionRepo struct {
	mu         sync.Mutex
	selections map[string]string
	setCalls   [][2]string
	clearCalls []string

	getErr error
	setErr error
}

func newMockSelectionRepo() *mockSelectionRepo {
	return &mockSelectionRepo{selections: make(map[string]string)}
}

func (m *mockSelectionRepo) Get(ctx context.Context, accountID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.selections[accountID], nil
}

func (m *mockSelectionRepo) Set(ctx context.Context, accountID, profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.selections[accountID] = profileID
	m.setCalls = append(m.setCalls, [2]string{accountID, profileID})
	return nil
}

func (m *mockSelectionRepo) Clear(ctx context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selections, accountID)
	m.clearCalls = append(m.clearCalls, accountID)
	return nil
}

type mockIdentityProvider struct {
	mu           sync.Mutex
	signOutCalls []string

	signInFn  func(ctx context.Context, email, password string) (*repositories.Identity, error)
	signOutFn func(ctx context.Context, accessToken string) error
	parseFn   func(ctx context.Context, accessToken string) (*repositories.Identity, error)
}

func (m *mockIdentityProvider) SignIn(ctx context.Context, email, password string) (*repositories.Identity, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return &repositories.Identity{ID: "id-1", Email: email, AccessToken: "token-1"}, nil
}

func (m *mockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	m.signOutCalls = append(m.signOutCalls, accessToken)
	m.mu.Unlock()
	if m.signOutFn != nil {
		return m.signOutFn(ctx, accessToken)
	}
	return nil
}

func (m *mockIdentityProvider) ParseToken(ctx context.Context, accessToken string) (*repositories.Identity, error) {
	if m.parseFn != nil {
		return m.parseFn(ctx, accessToken)
	}
	return &repositories.Identity{ID: "id-1", AccessToken: accessToken}, nil
}

// ===== MOCK AGGREGATE =====

type mockRepository struct {
	account   *mockAccountRepo
	profile   *mockProfileRepo
	bookmark  *mockBookmarkRepo
	progress  *mockProgressRepo
	selection *mockSelectionRepo
	identity  *mockIdentityProvider
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		account:   &mockAccountRepo{},
		profile:   &mockProfileRepo{},
		bookmark:  &mockBookmarkRepo{},
		progress:  &mockProgressRepo{},
		selection: newMockSelectionRepo(),
		identity:  &mockIdentityProvider{},
	}
}

func (m *mockRepository) Account() repositories.AccountRepository                   { return m.account }
func (m *mockRepository) Profile() repositories.ProfileRepository                   { return m.profile }
func (m *mockRepository) Bookmark() repositories.BookmarkRepository                 { return m.bookmark }
func (m *mockRepository) TrainingProgress() repositories.TrainingProgressRepository { return m.progress }
func (m *mockRepository) Selection() repositories.SelectionRepository               { return m.selection }
func (m *mockRepository) Identity() repositories.IdentityProvider                   { return m.identity }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
