// internal/services/identity_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/config"
	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

// IdentityService maps verified identity-provider tokens onto local
// user rows. Authentication itself is delegated to the provider; this
// service only syncs the local record the role gate reads from.
type IdentityService struct {
	db  *gorm.DB
	cfg *config.Config
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name,omitempty" validate:"omitempty,min=2,max=255"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address  string `json:"address,omitempty" validate:"omitempty,max=500"`
}

func NewIdentityService(db *gorm.DB, cfg *config.Config) *IdentityService {
	return &IdentityService{db: db, cfg: cfg}
}

// Sync finds the user for a verified token, creating the row on first
// sight. The role claim is honored only at creation; afterwards the
// stored role is authoritative and changes only through admin action.
func (s *IdentityService) Sync(claims *utils.IdentityClaims) (*models.User, error) {
	var user models.User
	err := s.db.Where("external_id = ?", claims.Subject).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		role := models.UserRole(claims.Role)
		if !role.Valid() || role == models.UserRoleAdmin {
			// Admin is never granted by a provider claim.
			role = models.UserRole(s.cfg.Identity.DefaultRole)
			if !role.Valid() {
				role = models.UserRoleGuest
			}
		}

		now := time.Now()
		user = models.User{
			ExternalID: claims.Subject,
			FullName:   claims.FullName,
			Email:      claims.Email,
			Phone:      claims.Phone,
			Role:       role,
			Status:     models.UserStatusActive,
			LastSeenAt: &now,
		}

		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil
	}

	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account suspended", ErrForbidden)
	}

	// Refresh provider-owned profile fields on every sync
	now := time.Now()
	updates := map[string]interface{}{"last_seen_at": &now}
	if claims.Email != "" && claims.Email != user.Email {
		updates["email"] = claims.Email
	}
	if claims.FullName != "" && user.FullName == "" {
		updates["full_name"] = claims.FullName
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

func (s *IdentityService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *IdentityService) UpdateProfile(id uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return user, nil
}
