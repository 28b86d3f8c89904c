// internal/domain/user/admin.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrSelfModification is returned when an admin changes their own status or role
var ErrSelfModification = errors.New("administrators cannot change their own account status or role")

// UserListRequest represents admin user list query parameters
type UserListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	IsAdmin  *bool  `form:"is_admin"`
}

// UserListResponse represents a page of users
type UserListResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// ListUsers pages through users, newest first
func (s *Service) ListUsers(ctx context.Context, req *UserListRequest) (*UserListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&User{})
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", search, search)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}
	if req.IsAdmin != nil {
		query = query.Where("is_admin = ?", *req.IsAdmin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []User
	err := query.
		Order("created_at DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	return &UserListResponse{
		Users:      users,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

// GetUser retrieves a user regardless of status
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &user, nil
}

// SetActive activates or deactivates an account. Deactivated users can no
// longer log in or refresh their tokens.
func (s *Service) SetActive(ctx context.Context, userID string, active bool, adminID string) (*User, error) {
	return s.setFlag(ctx, userID, "is_active", active, adminID)
}

// SetAdmin grants or revokes admin privileges
func (s *Service) SetAdmin(ctx context.Context, userID string, admin bool, adminID string) (*User, error) {
	return s.setFlag(ctx, userID, "is_admin", admin, adminID)
}

func (s *Service) setFlag(ctx context.Context, userID, column string, value bool, adminID string) (*User, error) {
	if userID == adminID {
		return nil, ErrSelfModification
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Update(column, value).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.WithField("user_id", userID).
		WithField("admin_id", adminID).
		WithField(column, value).
		Info("User account updated by admin")

	return s.GetUser(ctx, userID)
}
