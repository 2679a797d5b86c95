package repositories

import (
	"context"

	"github.com/RxPortal-2025/member-portal/internal/models"

	"gorm.io/gorm"
)

type BookmarkRepository interface {
	// Create inserts a (profile, resource) bookmark. The pair is unique
	// upstream; inserting an existing pair is a no-op rather than an error so
	// a racing double-toggle cannot leave duplicate rows.
	Create(ctx context.Context, tx *gorm.DB, bookmark *models.Bookmark) error

	// DeleteByProfileAndResource removes the pair if present.
	DeleteByProfileAndResource(ctx context.Context, tx *gorm.DB, profileID, resourceID string) error

	ListByProfile(ctx context.Context, tx *gorm.DB, profileID string, filters BookmarkFilters) ([]*models.Bookmark, error)
	Exists(ctx context.Context, tx *gorm.DB, profileID, resourceID string) (bool, error)

	// DeleteByProfile clears all bookmarks for a profile (hard profile delete).
	DeleteByProfile(ctx context.Context, tx *gorm.DB, profileID string) error
}
