package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProfileRole string

const (
	RolePharmacist    ProfileRole = "Pharmacist"
	RolePharmacistPIC ProfileRole = "Pharmacist-PIC"
	RoleTechnician    ProfileRole = "Pharmacy Technician"
	RoleIntern        ProfileRole = "Intern"
	RolePharmacy      ProfileRole = "Pharmacy"
	RoleAdmin         ProfileRole = "Admin"
)

// ValidProfileRoles is the closed set of roles a profile may carry.
var ValidProfileRoles = []ProfileRole{
	RolePharmacist,
	RolePharmacistPIC,
	RoleTechnician,
	RoleIntern,
	RolePharmacy,
	RoleAdmin,
}

func (r ProfileRole) Valid() bool {
	for _, role := range ValidProfileRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile is an individual user of a shared Account. Profiles carry no
// credentials of their own; they exist for per-person personalization.
// Removal is soft by default (Active flag) because bookmarks and training
// progress reference the profile id.
type Profile struct {
	ID        string      `json:"id" gorm:"primaryKey;size:64"`
	AccountID string      `json:"account_id" gorm:"not null;index;size:255"`
	FirstName string      `json:"first_name" gorm:"not null;size:100"`
	LastName  string      `json:"last_name" gorm:"not null;size:100"`
	Role      ProfileRole `json:"role" gorm:"not null;size:32"`

	// Optional contact and credential info
	Email       *string        `json:"email" gorm:"size:255"`
	Phone       *string        `json:"phone" gorm:"size:32"`
	Credentials datatypes.JSON `json:"credentials" gorm:"type:jsonb"`

	Active bool `json:"active" gorm:"not null;default:true;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) DisplayName() string {
	return p.FirstName + " " + p.LastName
}
