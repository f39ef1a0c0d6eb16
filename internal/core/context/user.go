// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Role is the access level assigned to a user profile.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// UserContext contains authenticated user information.
type UserContext struct {
	UserID    string
	Email     string
	FullName  string
	Role      Role
	SessionID string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole checks if user has one of the given roles.
func HasRole(ctx context.Context, roles ...Role) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the current user has the ADMIN role.
func IsAdmin(ctx context.Context) bool {
	return HasRole(ctx, RoleAdmin)
}
