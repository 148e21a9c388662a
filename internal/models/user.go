package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	ClassLevel   string     `json:"class_level"` // "11" | "12"
	Stream       string     `json:"stream"`      // "science" | "commerce" | "arts"
	IsVerified   bool       `json:"is_verified"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

type RegisterRequest struct {
	FullName   string `json:"full_name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	ClassLevel string `json:"class_level" validate:"required,oneof=11 12"`
	Stream     string `json:"stream" validate:"required,oneof=science commerce arts"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName   string `json:"full_name" validate:"omitempty,max=120"`
	ClassLevel string `json:"class_level" validate:"omitempty,oneof=11 12"`
	Stream     string `json:"stream" validate:"omitempty,oneof=science commerce arts"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserSettings struct {
	UserID            uuid.UUID       `json:"user_id"`
	WeekStart         string          `json:"week_start"`
	NotificationsJSON json.RawMessage `json:"notifications"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type UpdateSettingsRequest struct {
	WeekStart      *string `json:"week_start"`
	WeeklyDigest   *bool   `json:"weekly_digest"`
	StudyReminders *bool   `json:"study_reminders"`
}

// SettingsView is the decoded form of UserSettings returned to clients.
type SettingsView struct {
	WeekStart      string `json:"week_start"`
	WeeklyDigest   bool   `json:"weekly_digest"`
	StudyReminders bool   `json:"study_reminders"`
}
