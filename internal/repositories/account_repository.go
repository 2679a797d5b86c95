package repositories

import (
	"context"

	"github.com/RxPortal-2025/member-portal/internal/models"
)

// AccountContactUpdate carries the optional contact-field edits an account
// owner may make; nil fields are left untouched.
type AccountContactUpdate struct {
	ContactName  *string `json:"contact_name"`
	ContactPhone *string `json:"contact_phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
}

// AccountRepository gives read access to the subscriber rows plus the one
// mutation this service owns (contact edits). Account creation and
// subscription-status changes belong to the provisioning/billing service.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	ExistsByID(ctx context.Context, id string) (bool, error)

	UpdateContact(ctx context.Context, id string, update AccountContactUpdate) (*models.Account, error)
}
