// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the user entity
type User struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	Name            string         `gorm:"size:200;not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password        string         `gorm:"not null;size:255" json:"-"`
	Phone           string         `gorm:"size:20" json:"phone"`
	Address         string         `gorm:"size:255" json:"address"`
	City            string         `gorm:"size:100" json:"city"`
	ZipCode         string         `gorm:"size:20" json:"zip_code"`
	Country         string         `gorm:"size:100" json:"country"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	IsAdmin         bool           `gorm:"default:false" json:"is_admin"`
	EmailVerified   bool           `gorm:"default:false" json:"email_verified"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	LastLoginAt     *time.Time     `json:"last_login_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id and normalizes the email
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = normalizeEmail(u.Email)
	return nil
}

// GetDisplayName returns display name (name or email)
func (u *User) GetDisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Email
}

// Identity is what the cart and checkout flows know about the actor.
// A zero Identity is an anonymous visitor.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	Admin    bool   `json:"admin"`
}

// Authenticated reports whether the identity belongs to a signed-in user
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Identity returns the user's current identity
func (u *User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Verified: u.EmailVerified,
		Admin:    u.IsAdmin,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
