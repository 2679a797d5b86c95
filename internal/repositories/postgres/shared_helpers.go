package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// handleDBError wraps a database error with the failed operation. Record
// misses pass through unwrapped so repositories.IsNotFoundError keeps
// matching them through errors.Is.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", operation, gorm.ErrRecordNotFound)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// applyPagination applies limit and offset when set.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
