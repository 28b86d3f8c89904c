// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
	ErrAlreadyVerified    = errors.New("email is already verified")
)

const (
	verifyTokenKey = "email_verify:token:%s"
	verifyUserKey  = "email_verify:user:%s"
)

// Mailer delivers account emails
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, userEmail, userName string) error
	SendEmailVerificationEmail(ctx context.Context, userEmail, userName, token string) error
}

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	redis           redis.Cmdable
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	mailer          Mailer
	logger          logrus.FieldLogger
}

// NewService creates a new user service
func NewService(db *gorm.DB, rdb redis.Cmdable, cfg *config.Config, mailer Mailer, logger logrus.FieldLogger) *Service {
	return &Service{
		db:              db,
		redis:           rdb,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		mailer:          mailer,
		logger:          logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	ZipCode *string `json:"zip_code" binding:"omitempty,max=20"`
	Country *string `json:"country" binding:"omitempty,max=100"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new account and sends the first verification email
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	email := normalizeEmail(req.Email)
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Name:     req.Name,
		Email:    email,
		Password: hashedPassword,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.GetDisplayName()); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
	}
	if err := s.sendVerification(ctx, &user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to send verification email")
	}

	return s.issueTokens(ctx, &user)
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user User
	result := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", normalizeEmail(req.Email), true).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, &user)
}

// RefreshToken generates new tokens using refresh token.
// Claims are rebuilt from the stored user so a freshly verified address takes effect.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.findActive(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	resp, err := s.tokensFor(user)
	if err != nil {
		return nil, err
	}
	if !s.config.JWT.RefreshTokenRotation {
		resp.RefreshToken = refreshToken
	}
	return resp, nil
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.findActive(ctx, userID)
}

// Identity resolves the current identity of a user from storage
func (s *Service) Identity(ctx context.Context, userID string) (Identity, error) {
	user, err := s.findActive(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	return user.Identity(), nil
}

// UpdateProfile updates the editable profile fields
func (s *Service) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*User, error) {
	user, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("name", req.Name)
	set("phone", req.Phone)
	set("address", req.Address)
	set("city", req.City)
	set("zip_code", req.ZipCode)
	set("country", req.Country)

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.findActive(ctx, userID)
}

// ChangePassword changes user password after verifying current password
func (s *Service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.findActive(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(req.CurrentPassword, user.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ResendVerification issues a new verification token, replacing any earlier one
func (s *Service) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.findActive(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	return s.sendVerification(ctx, user)
}

// VerifyEmail consumes a verification token and marks the address verified
func (s *Service) VerifyEmail(ctx context.Context, token string) (*AuthResponse, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	userID, err := s.redis.GetDel(ctx, fmt.Sprintf(verifyTokenKey, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to read verification token: %w", err)
	}
	if err := s.redis.Del(ctx, fmt.Sprintf(verifyUserKey, userID)).Err(); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to clear verification index")
	}

	now := time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"email_verified":    true,
			"email_verified_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to verify email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	user, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", userID).Info("Email verified")
	return s.tokensFor(user)
}

// EnsureAdmin creates the administrator account when it does not exist yet
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check admin user: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hashedPassword, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := User{
		Name:            "Administrator",
		Email:           email,
		Password:        hashedPassword,
		IsActive:        true,
		IsAdmin:         true,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}

// Count returns the number of registered users
func (s *Service) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (s *Service) sendVerification(ctx context.Context, user *User) error {
	ttl := s.config.Storefront.VerificationTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	userKey := fmt.Sprintf(verifyUserKey, user.ID)
	if previous, err := s.redis.Get(ctx, userKey).Result(); err == nil {
		s.redis.Del(ctx, fmt.Sprintf(verifyTokenKey, previous))
	} else if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read verification index: %w", err)
	}

	token := uuid.NewString()
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(verifyTokenKey, token), user.ID, ttl)
		pipe.Set(ctx, userKey, token, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	return s.mailer.SendEmailVerificationEmail(ctx, user.Email, user.GetDisplayName(), token)
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*AuthResponse, error) {
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(user).Update("last_login_at", now).Error; err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}
	return s.tokensFor(user)
}

func (s *Service) tokensFor(user *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.EmailVerified, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

func (s *Service) findActive(ctx context.Context, userID string) (*User, error) {
	var user User
	result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}
	return &user, nil
}
