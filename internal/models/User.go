package models

import "time"

// User is the single account entity. Driver-only fields (approval stamp and
// license images) are kept on the row and only rendered when the role is driver.
type User struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name" gorm:"not null"`
	Phone             string     `json:"phone" gorm:"uniqueIndex;not null"`
	Password          string     `json:"-" gorm:"not null"`
	RoleID            uint       `json:"role_id" gorm:"not null;index"`
	Role              Role       `json:"-" gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	IsApproved        bool       `json:"is_approved" gorm:"not null;default:false"`
	FrontLicenseImage *string    `json:"front_license_image"`
	BackLicenseImage  *string    `json:"back_license_image"`
	ApprovedAt        *time.Time `json:"approved_at"`
	ApprovedBy        *uint      `json:"approved_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	DriverProfile *DriverProfile `json:"driver_profile,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// HasLicenseImages reports whether both license images are set.
func (u *User) HasLicenseImages() bool {
	return u.FrontLicenseImage != nil && *u.FrontLicenseImage != "" &&
		u.BackLicenseImage != nil && *u.BackLicenseImage != ""
}
