package repositories

import (
	"context"

	"github.com/RxPortal-2025/member-portal/internal/models"

	"gorm.io/gorm"
)

type TrainingProgressRepository interface {
	// Upsert creates or updates the (profile, module) row. PercentComplete is
	// clamped non-decreasing at the database so concurrent writers (multiple
	// tabs) can never rewind recorded progress; every other field is
	// last-write-wins.
	Upsert(ctx context.Context, tx *gorm.DB, progress *models.TrainingProgress) error

	GetByProfileAndModule(ctx context.Context, tx *gorm.DB, profileID, moduleID string) (*models.TrainingProgress, error)
	ListByProfile(ctx context.Context, tx *gorm.DB, profileID string, filters ProgressFilters) ([]*models.TrainingProgress, error)

	// ListByAccount joins through profiles for the account-wide report export.
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID string) ([]*models.TrainingProgress, error)
	GetAccountStats(ctx context.Context, tx *gorm.DB, accountID string) (*AccountTrainingStats, error)

	// DeleteByProfile clears all progress rows for a profile (hard profile delete).
	DeleteByProfile(ctx context.Context, tx *gorm.DB, profileID string) error
}
