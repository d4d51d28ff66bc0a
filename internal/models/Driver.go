// internal/models/driver.go
package models

import "time"

// DriverProfile holds the driver-only details collected by the driver endpoints.
// Name, phone, password and role stay on the User row.
type DriverProfile struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	LicenseNumber string    `json:"license_number"`
	LicenseType   string    `json:"license_type"`
	VehicleInfo   string    `json:"vehicle_info"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
