package repositories

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// IsNotFoundError reports whether err means "row or key absent" for any of
// the backing stores, so callers can branch without importing driver packages.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, redis.Nil)
}
