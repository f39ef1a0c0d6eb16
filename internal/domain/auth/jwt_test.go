package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stockpilot/internal/core/context"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	user := NewUser("manager@example.com", "Jane Manager", appctx.RoleManager)
	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, user.Email, uc.Email)
	assert.Equal(t, user.FullName, uc.FullName)
	assert.Equal(t, appctx.RoleManager, uc.Role)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-one"))
	validator := NewJWTService(DefaultJWTConfig("secret-two"))

	user := NewUser("staff@example.com", "Sam Staff", appctx.RoleStaff)
	token, _, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = time.Millisecond
	svc := NewJWTService(cfg)

	user := NewUser("admin@example.com", "Ada Admin", appctx.RoleAdmin)
	token, _, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
