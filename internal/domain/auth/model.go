// Package auth provides authentication and profile management.
package auth

import (
	"context"
	"regexp"
	"time"

	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
)

// User is an account profile with a single role.
type User struct {
	ID           id.ID       `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	FullName     string      `db:"full_name" json:"fullName"`
	Role         appctx.Role `db:"role" json:"role"`
	AvatarURL    *string     `db:"avatar_url" json:"avatarUrl,omitempty"`
	IsActive     bool        `db:"is_active" json:"isActive"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewUser creates an active User with generated ID.
func NewUser(email, fullName string, role appctx.Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id.New(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks entity invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" || !emailPattern.MatchString(u.Email) {
		return apperror.NewValidation("valid email is required").
			WithDetail("field", "email")
	}
	if u.FullName == "" {
		return apperror.NewValidation("full name is required").
			WithDetail("field", "fullName")
	}
	if !appctx.ValidRole(u.Role) {
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role").
			WithDetail("value", string(u.Role))
	}
	return nil
}

// Touch updates the modification timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// LoginRequest carries credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries data for creating a new profile.
type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"fullName"`
	Role     appctx.Role `json:"role"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User        *User     `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
