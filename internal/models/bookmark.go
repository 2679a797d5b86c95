package models

import (
	"time"
)

// Bookmark associates a profile with a resource. The (profile, resource) pair
// is unique so toggling is idempotent; rows are created and destroyed, never
// updated in place.
type Bookmark struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ProfileID  string `json:"profile_id" gorm:"not null;uniqueIndex:idx_bookmark_profile_resource;size:64"`
	ResourceID string `json:"resource_id" gorm:"not null;uniqueIndex:idx_bookmark_profile_resource;size:64"`

	CreatedAt time.Time `json:"created_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
