package dto

import (
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/domain/auth"
)

// LoginRequest for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.LoginRequest {
	return auth.LoginRequest{
		Email:    r.Email,
		Password: r.Password,
	}
}

// RegisterRequest for creating a user profile.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role"`
}

// ToAuthRequest converts to domain request.
func (r *RegisterRequest) ToAuthRequest() auth.RegisterRequest {
	return auth.RegisterRequest{
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Role:     appctx.Role(r.Role),
	}
}

// UpdateProfileRequest for updating a user profile.
type UpdateProfileRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	FullName  string  `json:"fullName" binding:"required"`
	Role      string  `json:"role" binding:"required"`
	AvatarURL *string `json:"avatarUrl"`
	IsActive  bool    `json:"isActive"`
}

// ApplyTo applies update DTO to existing user.
func (r *UpdateProfileRequest) ApplyTo(u *auth.User) {
	u.Email = r.Email
	u.FullName = r.FullName
	u.Role = appctx.Role(r.Role)
	u.AvatarURL = r.AvatarURL
	u.IsActive = r.IsActive
}

// ChangePasswordRequest for changing the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
