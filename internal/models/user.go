package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User roles. Moderators need an elevation claim for admin-only routes,
// admins do not.
const (
	RoleStudent   = "student"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Branch      string `json:"branch"`
	GradYear    int    `json:"grad_year"`
	Password    string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	Role        string `json:"role" gorm:"size:20;default:'student';index"`

	// Gamification counters, bumped on submissions and received upvotes.
	Points int    `json:"points" gorm:"default:0"`
	Level  int    `json:"level" gorm:"default:1"`
	Badges string `json:"badges"` // comma-separated badge slugs

	// Opt-out switch consulted before any notification row is created.
	BrowserNotifications bool `json:"browser_notifications" gorm:"default:true"`
}

// UserCompact is the embedded author/actor view returned inside other payloads.
type UserCompact struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Branch   string `json:"branch" validate:"omitempty,max=100"`
	GradYear int    `json:"grad_year" validate:"omitempty,min=1990,max=2100"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Branch   string `json:"branch,omitempty" validate:"omitempty,max=100"`
	GradYear int    `json:"grad_year,omitempty" validate:"omitempty,min=1990,max=2100"`
}

type UpdatePreferencesRequest struct {
	BrowserNotifications *bool `json:"browser_notifications" validate:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student moderator admin"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// Elevated is only ever true on the short-lived tokens issued by /auth/elevate.
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Elevated bool   `json:"elevated,omitempty"`
	jwt.RegisteredClaims
}

// CanModerate reports whether this identity may hit admin-only routes.
func (c *JwtCustomClaims) CanModerate() bool {
	return c.Role == RoleAdmin || (c.Role == RoleModerator && c.Elevated)
}
