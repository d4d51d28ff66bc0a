// Package services holds the account and driver operations behind the HTTP
// controllers. Expected failures are returned as *apperr.Error.
package services

import (
	"strings"
	"unicode"

	"ride_hailing/internal/models"
	"ride_hailing/internal/roles"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(user *models.User, role string) (string, error)
}

// Requester is the authenticated caller of an operation.
type Requester struct {
	ID   uint
	Role string
}

func (r Requester) IsAdmin() bool { return r.Role == models.RoleAdmin }

// UserResponse is the public projection of a user. Approval state and license
// images are null unless the user is a driver.
type UserResponse struct {
	ID                uint                  `json:"id"`
	Name              string                `json:"name"`
	Phone             string                `json:"phone"`
	Role              string                `json:"role"`
	IsApproved        *bool                 `json:"isApproved"`
	FrontLicenseImage *string               `json:"frontLicenseImage"`
	BackLicenseImage  *string               `json:"backLicenseImage"`
	DriverProfile     *DriverProfileResponse `json:"driverProfile,omitempty"`
}

type DriverProfileResponse struct {
	LicenseNumber string `json:"licenseNumber"`
	LicenseType   string `json:"licenseType"`
	VehicleInfo   string `json:"vehicleInfo"`
}

func toUserResponse(u *models.User, reg *roles.Registry) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Phone: u.Phone,
		Role:  reg.NameOf(u.RoleID),
	}
	if resp.Role == models.RoleDriver {
		approved := u.IsApproved
		resp.IsApproved = &approved
		resp.FrontLicenseImage = u.FrontLicenseImage
		resp.BackLicenseImage = u.BackLicenseImage
		if u.DriverProfile != nil {
			resp.DriverProfile = &DriverProfileResponse{
				LicenseNumber: u.DriverProfile.LicenseNumber,
				LicenseType:   u.DriverProfile.LicenseType,
				VehicleInfo:   u.DriverProfile.VehicleInfo,
			}
		}
	}
	return resp
}

// stripSpaces removes every whitespace rune from s.
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func strPtr(s string) *string { return &s }
