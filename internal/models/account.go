package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
)

// Account is the billing/authentication tenant: one row per paying subscriber.
// Accounts are provisioned out of band; this service only reads them on
// authentication and allows contact-field edits.
type Account struct {
	ID                 string             `json:"id" gorm:"primaryKey;size:255"`
	Email              string             `json:"email" gorm:"uniqueIndex;not null;size:255"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" gorm:"not null;size:32;default:active"`
	OrganizationName   string             `json:"organization_name" gorm:"size:200"`

	// Contact info
	ContactName  *string `json:"contact_name" gorm:"size:100"`
	ContactPhone *string `json:"contact_phone" gorm:"size:32"`
	AddressLine1 *string `json:"address_line1" gorm:"size:200"`
	AddressLine2 *string `json:"address_line2" gorm:"size:200"`
	City         *string `json:"city" gorm:"size:100"`
	State        *string `json:"state" gorm:"size:50"`
	PostalCode   *string `json:"postal_code" gorm:"size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
