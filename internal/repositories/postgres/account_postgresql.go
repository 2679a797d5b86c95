package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/RxPortal-2025/member-portal/internal/cache"
	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

type AccountPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAccountPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AccountRepository {
	return &AccountPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *AccountPostgreSQL) GetByID(ctx context.Context, id string) (*models.Account, error) {
	// Account rows change rarely; serve repeated lookups from cache
	cacheKey := fmt.Sprintf("id:%s", id)
	var account models.Account

	err := a.cacheManager.Account.CacheOrExecute(ctx, cacheKey, &account, cache.AccountCacheConfig.TTL, func() (interface{}, error) {
		var dbAccount models.Account
		if err := a.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error; err != nil {
			return nil, handleDBError(err, "get account by id")
		}
		return &dbAccount, nil
	})

	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (a *AccountPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, handleDBError(err, "get account by email")
	}
	return &account, nil
}

func (a *AccountPostgreSQL) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check account exists")
	}
	return count > 0, nil
}

func (a *AccountPostgreSQL) UpdateContact(ctx context.Context, id string, update repositories.AccountContactUpdate) (*models.Account, error) {
	updates := map[string]interface{}{}
	if update.ContactName != nil {
		updates["contact_name"] = *update.ContactName
	}
	if update.ContactPhone != nil {
		updates["contact_phone"] = *update.ContactPhone
	}
	if update.AddressLine1 != nil {
		updates["address_line1"] = *update.AddressLine1
	}
	if update.AddressLine2 != nil {
		updates["address_line2"] = *update.AddressLine2
	}
	if update.City != nil {
		updates["city"] = *update.City
	}
	if update.State != nil {
		updates["state"] = *update.State
	}
	if update.PostalCode != nil {
		updates["postal_code"] = *update.PostalCode
	}

	if len(updates) > 0 {
		result := a.db.WithContext(ctx).
			Model(&models.Account{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, handleDBError(result.Error, "update account contact")
		}
		if result.RowsAffected == 0 {
			return nil, handleDBError(gorm.ErrRecordNotFound, "update account contact")
		}

		// Drop the stale cached row
		if err := a.cacheManager.InvalidateAccount(ctx, id); err != nil {
			return nil, fmt.Errorf("invalidate account cache: %w", err)
		}
	}

	var account models.Account
	if err := a.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, handleDBError(err, "reload account after update")
	}
	return &account, nil
}
