package services

import (
	"context"
	"errors"
	"strings"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ride_hailing/internal/apperr"
	"ride_hailing/internal/models"
	"ride_hailing/internal/roles"
)

type CreateDriverInput struct {
	UserID        uint   `json:"userId"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseType   string `json:"licenseType"`
	VehicleInfo   string `json:"vehicleInfo"`
}

// UpdateDriverInput fields left nil are not changed.
type UpdateDriverInput struct {
	LicenseNumber *string `json:"licenseNumber"`
	LicenseType   *string `json:"licenseType"`
	VehicleInfo   *string `json:"vehicleInfo"`
}

// DriverEcho reports the driver fields accepted by a create or update.
type DriverEcho struct {
	UserID        uint   `json:"userId"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseType   string `json:"licenseType"`
	VehicleInfo   string `json:"vehicleInfo"`
}

// DriverService manages the driver role and driver profiles of existing users.
type DriverService struct {
	db    *gorm.DB
	roles *roles.Registry
}

func NewDriverService(db *gorm.DB, reg *roles.Registry) *DriverService {
	return &DriverService{db: db, roles: reg}
}

// CreateDriver promotes a user to the driver role and stores the driver profile.
func (s *DriverService) CreateDriver(ctx context.Context, in CreateDriverInput) (*DriverEcho, error) {
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	in.LicenseType = strings.TrimSpace(in.LicenseType)
	in.VehicleInfo = strings.TrimSpace(in.VehicleInfo)
	if in.UserID == 0 || in.LicenseNumber == "" || in.LicenseType == "" || in.VehicleInfo == "" {
		return nil, apperr.Validation("All fields are required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("User not found")
			}
			return apperr.Internal(err)
		}

		driverRole, err := s.roles.ByName(models.RoleDriver)
		if err != nil {
			return apperr.NotFound("Driver role not found")
		}

		if user.RoleID != driverRole.ID {
			user.RoleID = driverRole.ID
			resetApproval(&user)
			if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
				return apperr.Internal(err)
			}
		}

		profile := models.DriverProfile{
			UserID:        user.ID,
			LicenseNumber: in.LicenseNumber,
			LicenseType:   in.LicenseType,
			VehicleInfo:   in.VehicleInfo,
		}
		return upsertProfile(tx, &profile)
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	logrus.WithField("user_id", in.UserID).Info("driver created")
	return &DriverEcho{
		UserID:        in.UserID,
		LicenseNumber: in.LicenseNumber,
		LicenseType:   in.LicenseType,
		VehicleInfo:   in.VehicleInfo,
	}, nil
}

// GetAllDrivers lists users holding the driver role with their profiles.
func (s *DriverService) GetAllDrivers(ctx context.Context) ([]UserResponse, error) {
	driverRole, err := s.roles.ByName(models.RoleDriver)
	if err != nil {
		return nil, apperr.NotFound("Driver role not found")
	}

	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("role_id = ?", driverRole.ID).
		Preload("DriverProfile").
		Order("id").
		Find(&users).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i], s.roles))
	}
	return out, nil
}

func (s *DriverService) GetDriverByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.findDriver(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, s.roles)
	return &resp, nil
}

// UpdateDriver changes the provided profile fields, creating the profile when
// the driver has none yet.
func (s *DriverService) UpdateDriver(ctx context.Context, id uint, in UpdateDriverInput) (*DriverEcho, error) {
	var echo DriverEcho
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.findDriver(ctx, tx, id)
		if err != nil {
			return err
		}

		profile := models.DriverProfile{UserID: user.ID}
		if existing := user.DriverProfile; existing != nil {
			profile.LicenseNumber = existing.LicenseNumber
			profile.LicenseType = existing.LicenseType
			profile.VehicleInfo = existing.VehicleInfo
		}
		if in.LicenseNumber != nil {
			profile.LicenseNumber = strings.TrimSpace(*in.LicenseNumber)
		}
		if in.LicenseType != nil {
			profile.LicenseType = strings.TrimSpace(*in.LicenseType)
		}
		if in.VehicleInfo != nil {
			profile.VehicleInfo = strings.TrimSpace(*in.VehicleInfo)
		}
		if err := upsertProfile(tx, &profile); err != nil {
			return err
		}

		echo = DriverEcho{
			UserID:        user.ID,
			LicenseNumber: profile.LicenseNumber,
			LicenseType:   profile.LicenseType,
			VehicleInfo:   profile.VehicleInfo,
		}
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return &echo, nil
}

// DeleteDriver demotes the driver back to the user role and drops the profile.
// The user row itself is kept.
func (s *DriverService) DeleteDriver(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.findDriver(ctx, tx, id)
		if err != nil {
			return err
		}

		userRole, err := s.roles.ByName(models.RoleUser)
		if err != nil {
			return apperr.NotFound("User role not found")
		}

		user.RoleID = userRole.ID
		resetApproval(user)
		user.DriverProfile = nil
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.DriverProfile{}).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return apperr.From(err)
	}

	logrus.WithField("user_id", id).Info("driver demoted to user")
	return nil
}

func (s *DriverService) findDriver(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	driverRole, err := s.roles.ByName(models.RoleDriver)
	if err != nil {
		return nil, apperr.NotFound("Driver role not found")
	}

	var user models.User
	if err := db.WithContext(ctx).
		Where("id = ? AND role_id = ?", id, driverRole.ID).
		Preload("DriverProfile").
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Driver not found")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

func upsertProfile(tx *gorm.DB, profile *models.DriverProfile) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"license_number", "license_type", "vehicle_info", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
