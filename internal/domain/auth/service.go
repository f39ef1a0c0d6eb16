package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain"
	"stockpilot/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 8,
	}
}

// Service provides authentication and profile management logic.
type Service struct {
	userRepo   UserRepository
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, txManager tx.Manager, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

// Login authenticates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperror.NewValidation("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Same response as a wrong password; do not leak which accounts exist.
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, apperror.NewForbidden("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "role", string(user.Role))

	return &LoginResult{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Register creates a new user profile. Only admins may call this;
// the role check is enforced by the HTTP layer.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	role := req.Role
	if role == "" {
		role = appctx.RoleStaff
	}

	user := NewUser(email, req.FullName, role)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// GetProfile retrieves a user by ID.
func (s *Service) GetProfile(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, err
	}
	return user, nil
}

// ListProfiles returns user profiles with filtering and pagination.
func (s *Service) ListProfiles(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error) {
	filter.Normalize()
	if filter.OrderBy == "" {
		filter.OrderBy = "full_name"
	}
	return s.userRepo.List(ctx, filter)
}

// UpdateProfile persists profile changes (name, role, avatar, active flag).
func (s *Service) UpdateProfile(ctx context.Context, user *User) error {
	if err := user.Validate(ctx); err != nil {
		return err
	}
	user.Touch()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DeleteProfile removes a user profile. A user cannot delete themselves.
func (s *Service) DeleteProfile(ctx context.Context, userID id.ID) error {
	if current := appctx.GetUser(ctx); current != nil && current.UserID == userID.String() {
		return apperror.NewConflict("cannot delete your own account")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	logger.Info(ctx, "user deleted", "deleted_user_id", userID)
	return nil
}

// ChangePassword sets a new password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID id.ID, currentPassword, newPassword string) error {
	if len(newPassword) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "newPassword")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperror.NewUnauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.Touch()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	})
}
