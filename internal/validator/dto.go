package validator

import "github.com/RxPortal-2025/member-portal/internal/models"

// SignInRequest carries the credential pair for session establishment
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// ProfileCreateRequest creates a new profile under the current account
type ProfileCreateRequest struct {
	FirstName   string                 `json:"first_name" validate:"required,person_name"`
	LastName    string                 `json:"last_name" validate:"required,person_name"`
	Role        models.ProfileRole     `json:"role" validate:"required,profile_role"`
	Email       *string                `json:"email" validate:"omitempty,email"`
	Phone       *string                `json:"phone" validate:"omitempty,max=32"`
	Credentials map[string]interface{} `json:"credentials"`
}

// ProfileUpdateRequest patches an existing profile; nil fields are untouched
type ProfileUpdateRequest struct {
	FirstName   *string                `json:"first_name" validate:"omitempty,person_name"`
	LastName    *string                `json:"last_name" validate:"omitempty,person_name"`
	Role        *models.ProfileRole    `json:"role" validate:"omitempty,profile_role"`
	Email       *string                `json:"email" validate:"omitempty,email"`
	Phone       *string                `json:"phone" validate:"omitempty,max=32"`
	Credentials map[string]interface{} `json:"credentials"`
}

// BookmarkToggleRequest flips a bookmark for the active profile
type BookmarkToggleRequest struct {
	ResourceID string `json:"resource_id" validate:"required,max=255"`
}

// TrainingProgressRequest records playback progress for a module
type TrainingProgressRequest struct {
	ModuleID        string   `json:"module_id" validate:"required,max=255"`
	PositionSeconds int      `json:"position_seconds" validate:"min=0"`
	PercentComplete float64  `json:"percent_complete" validate:"percent"`
	Completed       bool     `json:"completed"`
	Score           *float64 `json:"score" validate:"omitempty,percent"`
}

// AccountContactRequest patches the account's contact block
type AccountContactRequest struct {
	ContactName  *string `json:"contact_name" validate:"omitempty,max=200"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=32"`
	AddressLine1 *string `json:"address_line1" validate:"omitempty,max=200"`
	AddressLine2 *string `json:"address_line2" validate:"omitempty,max=200"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=50"`
	PostalCode   *string `json:"postal_code" validate:"omitempty,max=20"`
}
