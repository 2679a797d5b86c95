package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

type BookmarkPostgreSQL struct {
	db *gorm.DB
}

func NewBookmarkPostgreSQL(db *gorm.DB) repositories.BookmarkRepository {
	return &BookmarkPostgreSQL{db: db}
}

func (b *BookmarkPostgreSQL) Create(ctx context.Context, tx *gorm.DB, bookmark *models.Bookmark) error {
	db := b.getDB(tx)

	// ON CONFLICT DO NOTHING keeps a racing double-toggle from either
	// erroring or inserting a duplicate pair
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "resource_id"}},
			DoNothing: true,
		}).
		Create(bookmark).Error; err != nil {
		return handleDBError(err, "create bookmark")
	}
	return nil
}

func (b *BookmarkPostgreSQL) DeleteByProfileAndResource(ctx context.Context, tx *gorm.DB, profileID, resourceID string) error {
	db := b.getDB(tx)
	if err := db.WithContext(ctx).
		Where("profile_id = ? AND resource_id = ?", profileID, resourceID).
		Delete(&models.Bookmark{}).Error; err != nil {
		return handleDBError(err, "delete bookmark")
	}
	return nil
}

func (b *BookmarkPostgreSQL) ListByProfile(ctx context.Context, tx *gorm.DB, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error) {
	db := b.getDB(tx)
	var bookmarks []*models.Bookmark

	query := db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("profile_id = ?", profileID)

	if len(filters.ResourceIDs) > 0 {
		query = query.Where("resource_id IN ?", filters.ResourceIDs)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	query = query.Order("created_at DESC")
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&bookmarks).Error; err != nil {
		return nil, handleDBError(err, "list bookmarks by profile")
	}

	return bookmarks, nil
}

func (b *BookmarkPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, profileID, resourceID string) (bool, error) {
	db := b.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("profile_id = ? AND resource_id = ?", profileID, resourceID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check bookmark exists")
	}
	return count > 0, nil
}

func (b *BookmarkPostgreSQL) DeleteByProfile(ctx context.Context, tx *gorm.DB, profileID string) error {
	db := b.getDB(tx)
	if err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.Bookmark{}).Error; err != nil {
		return handleDBError(err, "delete bookmarks by profile")
	}
	return nil
}

func (b *BookmarkPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return b.db
}
