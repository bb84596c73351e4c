package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is the role a user acts under.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleLandlord UserRole = "LANDLORD"
	RoleTenant   UserRole = "TENANT"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleAdmin, RoleLandlord, RoleTenant:
		return true
	}
	return false
}

// User is an account. Credentials and session issuance live in an external
// auth service; this table carries the profile and role the core needs.
type User struct {
	ID           string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'TENANT';index" json:"role"`
	FirstName    string   `gorm:"type:varchar(100)" json:"first_name,omitempty"`
	LastName     string   `gorm:"type:varchar(100)" json:"last_name,omitempty"`
	PhoneNumber  string   `gorm:"type:varchar(30)" json:"phone_number,omitempty"`
	IdentityCard string   `gorm:"type:varchar(30)" json:"identity_card,omitempty"`
	Address      string   `gorm:"type:text" json:"address,omitempty"`
	IsVerified   bool     `gorm:"not null;default:false" json:"is_verified"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// FullName returns "First Last", trimming whichever part is missing.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
