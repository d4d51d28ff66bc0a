package models

import "time"

const (
	RoleUser   = "user"
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// RoleNames lists the roles seeded at startup, in seeding order.
var RoleNames = []string{RoleUser, RoleDriver, RoleAdmin}

type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidRoleName reports whether name is one of the known roles.
func IsValidRoleName(name string) bool {
	for _, r := range RoleNames {
		if r == name {
			return true
		}
	}
	return false
}
