package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/RxPortal-2025/member-portal/internal/cache"
	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// ===== BASIC CRUD OPERATIONS =====

func (p *ProfilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return handleDBError(err, "create profile")
	}
	p.invalidateAccountProfiles(ctx, profile.AccountID)
	return nil
}

func (p *ProfilePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error) {
	db := p.getDB(tx)
	var profile models.Profile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, handleDBError(err, "get profile by id")
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) ListByAccount(ctx context.Context, tx *gorm.DB, accountID string, filters repositories.ProfileFilters) ([]*models.Profile, error) {
	db := p.getDB(tx)
	var profiles []*models.Profile

	query := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("account_id = ?", accountID)

	if !filters.IncludeHidden {
		query = query.Where("active = ?", true)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}

	// Oldest first; the head of this list is the fallback selection
	query = query.Order("created_at ASC, id ASC")
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&profiles).Error; err != nil {
		return nil, handleDBError(err, "list profiles by account")
	}

	return profiles, nil
}

func (p *ProfilePostgreSQL) Update(ctx context.Context, tx *gorm.DB, id string, update repositories.ProfileUpdate) (*models.Profile, error) {
	db := p.getDB(tx)

	updates := map[string]interface{}{}
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}
	if update.Role != nil {
		updates["role"] = *update.Role
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.Credentials != nil {
		updates["credentials"] = update.Credentials
	}

	if len(updates) > 0 {
		result := db.WithContext(ctx).
			Model(&models.Profile{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, handleDBError(result.Error, "update profile")
		}
		if result.RowsAffected == 0 {
			return nil, handleDBError(gorm.ErrRecordNotFound, "update profile")
		}
	}

	var profile models.Profile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, handleDBError(err, "reload profile after update")
	}

	p.invalidateAccountProfiles(ctx, profile.AccountID)
	return &profile, nil
}

func (p *ProfilePostgreSQL) Deactivate(ctx context.Context, tx *gorm.DB, id string) error {
	db := p.getDB(tx)

	var profile models.Profile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return handleDBError(err, "get profile for deactivation")
	}

	if err := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("active", false).Error; err != nil {
		return handleDBError(err, "deactivate profile")
	}

	p.invalidateAccountProfiles(ctx, profile.AccountID)
	return nil
}

func (p *ProfilePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := p.getDB(tx)

	var profile models.Profile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return handleDBError(err, "get profile for delete")
	}

	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Profile{}).Error; err != nil {
		return handleDBError(err, "delete profile")
	}

	p.invalidateAccountProfiles(ctx, profile.AccountID)
	return nil
}

func (p *ProfilePostgreSQL) CountByAccount(ctx context.Context, tx *gorm.DB, accountID string) (int64, error) {
	db := p.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("account_id = ? AND active = ?", accountID, true).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count profiles by account")
	}
	return count, nil
}

// ===== HELPER METHODS =====

func (p *ProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProfilePostgreSQL) invalidateAccountProfiles(ctx context.Context, accountID string) {
	// Best effort; a stale list entry expires with the TTL anyway
	_ = p.cacheManager.InvalidateProfiles(ctx, accountID)
}
