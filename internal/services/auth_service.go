package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ride_hailing/internal/apperr"
	"ride_hailing/internal/models"
	"ride_hailing/internal/roles"
)

type RegisterInput struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Password          string `json:"password"`
	Role              string `json:"role"`
	FrontLicenseImage string `json:"frontLicenseImage"`
	BackLicenseImage  string `json:"backLicenseImage"`
}

type LoginInput struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateUserInput fields left nil are not changed.
type UpdateUserInput struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	RoleID            *uint   `json:"role_id"`
	FrontLicenseImage *string `json:"frontLicenseImage"`
	BackLicenseImage  *string `json:"backLicenseImage"`
}

type ApprovalResponse struct {
	UserID            uint       `json:"userId"`
	IsApproved        bool       `json:"isApproved"`
	ApprovedAt        *time.Time `json:"approvedAt"`
	ApprovedBy        *uint      `json:"approvedBy"`
	FrontLicenseImage *string    `json:"frontLicenseImage"`
	BackLicenseImage  *string    `json:"backLicenseImage"`
}

type AuthService struct {
	db       *gorm.DB
	roles    *roles.Registry
	tokens   TokenIssuer
	hashCost int
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, reg *roles.Registry, tokens TokenIssuer, hashCost int) *AuthService {
	return &AuthService{db: db, roles: reg, tokens: tokens, hashCost: hashCost, now: time.Now}
}

// Register creates an account. Phone uniqueness is left to the unique index so
// concurrent registrations of one phone end in a single row and a conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" || in.Password == "" {
		return nil, apperr.Validation("Name, phone and password are required fields!")
	}

	roleName := strings.ToLower(strings.TrimSpace(in.Role))
	if !models.IsValidRoleName(roleName) {
		return nil, apperr.Validation(fmt.Sprintf("Invalid role: %s", in.Role))
	}

	front := strings.TrimSpace(in.FrontLicenseImage)
	back := strings.TrimSpace(in.BackLicenseImage)
	if roleName == models.RoleDriver && (front == "" || back == "") {
		return nil, apperr.Validation("Front and back license images are required for driver registration")
	}

	role, err := s.roles.ByName(roleName)
	if err != nil {
		return nil, apperr.NotFound("Role not found.").WithStatus(http.StatusBadRequest)
	}

	hashed, err := hashPassword(in.Password, s.hashCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := models.User{
		Name:     name,
		Phone:    phone,
		Password: hashed,
		RoleID:   role.ID,
	}
	if roleName == models.RoleDriver {
		user.FrontLicenseImage = strPtr(front)
		user.BackLicenseImage = strPtr(back)
		user.IsApproved = false
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&user).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("This phone number is already registered!")
		}
		return nil, apperr.Internal(err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": roleName}).Info("user registered")
	resp := toUserResponse(&user, s.roles)
	return &resp, nil
}

// Login verifies the credentials and issues an access token. The phone matches
// either as sent or with all whitespace removed.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Phone == "" || in.Password == "" {
		return nil, apperr.Validation("Phone and password are required fields!")
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("phone IN ?", []string{in.Phone, stripSpaces(in.Phone)}).
		Order("id").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found!")
		}
		return nil, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperr.Unauthorized("Invalid password!")
	}

	roleName := s.roles.NameOf(user.RoleID)
	if roleName == models.RoleDriver && !user.IsApproved {
		return nil, apperr.Forbidden("Your driver account is pending approval from admin")
	}

	token, err := s.tokens.GenerateToken(&user, roleName)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("could not generate token: %w", err))
	}

	return &LoginResult{Token: token, User: toUserResponse(&user, s.roles)}, nil
}

func (s *AuthService) GetAllUsers(ctx context.Context) ([]UserResponse, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i], s.roles))
	}
	return out, nil
}

func (s *AuthService) GetOneUser(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.findUser(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, s.roles)
	return &resp, nil
}

// UpdateUser applies a partial update. Moving a user to the driver role, or
// resubmitting a driver's license images, clears the approval so an admin has
// to approve again.
func (s *AuthService) UpdateUser(ctx context.Context, requester Requester, id uint, in UpdateUserInput) (*UserResponse, error) {
	user, err := s.findUser(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	var cols []string
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
		user.Name = name
		cols = append(cols, "name")
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			return nil, apperr.Validation("Phone cannot be empty")
		}
		user.Phone = phone
		cols = append(cols, "phone")
	}

	roleID := user.RoleID
	if in.RoleID != nil {
		if _, err := s.roles.ByID(*in.RoleID); err != nil {
			return nil, apperr.Validation(fmt.Sprintf("Invalid role_id: %d", *in.RoleID))
		}
		if *in.RoleID != user.RoleID && !requester.IsAdmin() {
			return nil, apperr.Forbidden("Only admins can change a user's role")
		}
		roleID = *in.RoleID
	}

	toDriver := in.RoleID != nil && s.roles.Is(roleID, models.RoleDriver)
	newImages := in.FrontLicenseImage != nil || in.BackLicenseImage != nil
	switch {
	case toDriver || (newImages && s.roles.Is(roleID, models.RoleDriver)):
		front, back := deref(in.FrontLicenseImage), deref(in.BackLicenseImage)
		if front == "" || back == "" {
			return nil, apperr.Validation("Front and back license images are required for driver role")
		}
		user.FrontLicenseImage = strPtr(front)
		user.BackLicenseImage = strPtr(back)
		resetApproval(user)
		cols = append(cols, "front_license_image", "back_license_image")
		cols = append(cols, approvalColumns...)
	case roleID != user.RoleID:
		resetApproval(user)
		cols = append(cols, approvalColumns...)
	}
	if roleID != user.RoleID {
		user.RoleID = roleID
		cols = append(cols, "role_id")
	}

	// Only touched columns are written; an approval committed since the read survives.
	if len(cols) > 0 {
		err := s.db.WithContext(ctx).Model(user).Select(append(cols, "updated_at")).Updates(user).Error
		if err != nil {
			if apperr.IsUniqueViolation(err) {
				return nil, apperr.Conflict("This phone number is already registered!")
			}
			return nil, apperr.Internal(err)
		}
	}

	user, err = s.findUser(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, s.roles)
	return &resp, nil
}

// DeleteUser removes the user row and its driver profile.
func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.findUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.DriverProfile{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Delete(user).Error; err != nil {
			return apperr.Internal(err)
		}
		logrus.WithField("user_id", id).Info("user deleted")
		return nil
	})
}

// ApproveDriver marks a driver as approved by requester. The stamp is written
// at most once: approving an approved driver returns the existing stamp.
func (s *AuthService) ApproveDriver(ctx context.Context, requester Requester, userID uint) (*ApprovalResponse, error) {
	if userID == 0 {
		return nil, apperr.Validation("User ID is required")
	}

	db := s.db.WithContext(ctx)
	user, err := s.findUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if !s.roles.Is(user.RoleID, models.RoleDriver) {
		return nil, apperr.Validation("User is not a driver")
	}
	if !requester.IsAdmin() {
		return nil, apperr.Forbidden("Only admins can approve drivers")
	}
	if !user.HasLicenseImages() {
		return nil, apperr.Validation("Driver must upload both front and back license images before approval")
	}

	if !user.IsApproved {
		res := db.Model(&models.User{}).
			Where("id = ? AND is_approved = ?", user.ID, false).
			Updates(map[string]interface{}{
				"is_approved": true,
				"approved_at": s.now(),
				"approved_by": requester.ID,
			})
		if res.Error != nil {
			return nil, apperr.Internal(res.Error)
		}
		if res.RowsAffected > 0 {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "approved_by": requester.ID}).Info("driver approved")
		}
		if user, err = s.findUser(ctx, db, userID); err != nil {
			return nil, err
		}
	}

	return &ApprovalResponse{
		UserID:            user.ID,
		IsApproved:        user.IsApproved,
		ApprovedAt:        user.ApprovedAt,
		ApprovedBy:        user.ApprovedBy,
		FrontLicenseImage: user.FrontLicenseImage,
		BackLicenseImage:  user.BackLicenseImage,
	}, nil
}

func (s *AuthService) findUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var approvalColumns = []string{"is_approved", "approved_at", "approved_by"}

func resetApproval(u *models.User) {
	u.IsApproved = false
	u.ApprovedAt = nil
	u.ApprovedBy = nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
