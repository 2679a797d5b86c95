package repositories

import (
	"time"

	"github.com/RxPortal-2025/member-portal/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ProfileFilters struct {
	Role          *models.ProfileRole `json:"role"`
	IncludeHidden bool                `json:"include_hidden"` // include soft-removed profiles
	Limit         int                 `json:"limit"`
	Offset        int                 `json:"offset"`
}

type BookmarkFilters struct {
	ResourceIDs []string   `json:"resource_ids"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
}

type ProgressFilters struct {
	Completed *bool    `json:"completed"`
	ModuleIDs []string `json:"module_ids"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// AccountTrainingStats summarizes training activity across one account's
// profiles, used by the progress report export.
type AccountTrainingStats struct {
	ProfileCount     int     `json:"profile_count"`
	ModulesStarted   int     `json:"modules_started"`
	ModulesCompleted int     `json:"modules_completed"`
	AveragePercent   float64 `json:"average_percent"`
}
