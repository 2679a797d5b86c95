package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

type TrainingProgressPostgreSQL struct {
	db *gorm.DB
}

func NewTrainingProgressPostgreSQL(db *gorm.DB) repositories.TrainingProgressRepository {
	return &TrainingProgressPostgreSQL{db: db}
}

func (t *TrainingProgressPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, progress *models.TrainingProgress) error {
	db := t.getDB(tx)

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "module_id"}},
			DoUpdates: clause.Assignments(progressUpsertAssignments(progress)),
		}).
		Create(progress).Error; err != nil {
		return handleDBError(err, "upsert training progress")
	}
	return nil
}

// progressUpsertAssignments builds the conflict-update set for a progress
// write. GREATEST keeps percent_complete monotonic under concurrent writers
// and completed latches once true for the same reason. attempt_count is
// server-owned and must never be overwritten by a playback write.
func progressUpsertAssignments(progress *models.TrainingProgress) map[string]interface{} {
	return map[string]interface{}{
		"position_seconds": progress.PositionSeconds,
		"percent_complete": gorm.Expr("GREATEST(training_progress.percent_complete, ?)", progress.PercentComplete),
		"completed":        gorm.Expr("training_progress.completed OR ?", progress.Completed),
		"score":            progress.Score,
		"updated_at":       gorm.Expr("NOW()"),
	}
}

func (t *TrainingProgressPostgreSQL) GetByProfileAndModule(ctx context.Context, tx *gorm.DB, profileID, moduleID string) (*models.TrainingProgress, error) {
	db := t.getDB(tx)
	var progress models.TrainingProgress
	if err := db.WithContext(ctx).
		Where("profile_id = ? AND module_id = ?", profileID, moduleID).
		First(&progress).Error; err != nil {
		return nil, handleDBError(err, "get training progress")
	}
	return &progress, nil
}

func (t *TrainingProgressPostgreSQL) ListByProfile(ctx context.Context, tx *gorm.DB, profileID string, filters repositories.ProgressFilters) ([]*models.TrainingProgress, error) {
	db := t.getDB(tx)
	var rows []*models.TrainingProgress

	query := db.WithContext(ctx).
		Model(&models.TrainingProgress{}).
		Where("profile_id = ?", profileID)

	if filters.Completed != nil {
		query = query.Where("completed = ?", *filters.Completed)
	}
	if len(filters.ModuleIDs) > 0 {
		query = query.Where("module_id IN ?", filters.ModuleIDs)
	}

	query = query.Order("updated_at DESC")
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list training progress by profile")
	}

	return rows, nil
}

func (t *TrainingProgressPostgreSQL) ListByAccount(ctx context.Context, tx *gorm.DB, accountID string) ([]*models.TrainingProgress, error) {
	db := t.getDB(tx)
	var rows []*models.TrainingProgress

	if err := db.WithContext(ctx).
		Table("training_progress tp").
		Select("tp.*").
		Joins("INNER JOIN profiles p ON p.id = tp.profile_id").
		Where("p.account_id = ?", accountID).
		Order("tp.profile_id ASC, tp.module_id ASC").
		Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list training progress by account")
	}

	return rows, nil
}

func (t *TrainingProgressPostgreSQL) GetAccountStats(ctx context.Context, tx *gorm.DB, accountID string) (*repositories.AccountTrainingStats, error) {
	db := t.getDB(tx)
	stats := &repositories.AccountTrainingStats{}

	var profileCount int64
	if err := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("account_id = ? AND active = ?", accountID, true).
		Count(&profileCount).Error; err != nil {
		return nil, handleDBError(err, "count account profiles")
	}
	stats.ProfileCount = int(profileCount)

	type aggRow struct {
		Started   int64   `json:"started"`
		Completed int64   `json:"completed"`
		AvgPct    float64 `json:"avg_pct"`
	}
	var agg aggRow
	if err := db.WithContext(ctx).
		Table("training_progress tp").
		Select("COUNT(*) as started, COUNT(*) FILTER (WHERE tp.completed) as completed, COALESCE(AVG(tp.percent_complete), 0) as avg_pct").
		Joins("INNER JOIN profiles p ON p.id = tp.profile_id").
		Where("p.account_id = ?", accountID).
		Scan(&agg).Error; err != nil {
		return nil, handleDBError(err, "aggregate account training stats")
	}

	stats.ModulesStarted = int(agg.Started)
	stats.ModulesCompleted = int(agg.Completed)
	stats.AveragePercent = agg.AvgPct

	return stats, nil
}

func (t *TrainingProgressPostgreSQL) DeleteByProfile(ctx context.Context, tx *gorm.DB, profileID string) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.TrainingProgress{}).Error; err != nil {
		return handleDBError(err, "delete training progress by profile")
	}
	return nil
}

func (t *TrainingProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return t.db
}
