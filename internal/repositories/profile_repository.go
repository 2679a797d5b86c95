package repositories

import (
	"context"

	"github.com/RxPortal-2025/member-portal/internal/models"

	"gorm.io/gorm"
)

// ProfileUpdate is a partial patch; only non-nil fields are applied.
type ProfileUpdate struct {
	FirstName   *string             `json:"first_name"`
	LastName    *string             `json:"last_name"`
	Role        *models.ProfileRole `json:"role"`
	Email       *string             `json:"email"`
	Phone       *string             `json:"phone"`
	Credentials []byte              `json:"credentials"`
}

type ProfileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error)

	// ListByAccount returns the account's visible profiles ordered by creation
	// time ascending. The ordering is load-bearing: the oldest profile is the
	// default selection.
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID string, filters ProfileFilters) ([]*models.Profile, error)

	Update(ctx context.Context, tx *gorm.DB, id string, update ProfileUpdate) (*models.Profile, error)

	// Deactivate flips the active flag (soft removal, the default path).
	Deactivate(ctx context.Context, tx *gorm.DB, id string) error

	// Delete removes the row outright. Collaborator policy only; dependent
	// personalization rows are not guaranteed to cascade.
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	CountByAccount(ctx context.Context, tx *gorm.DB, accountID string) (int64, error)
}
