package supplier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"stockpilot/internal/core/apperror"
)

func strPtr(s string) *string { return &s }

func TestNewSupplier_Defaults(t *testing.T) {
	s := NewSupplier("Acme Components")

	assert.True(t, s.IsActive)
	assert.Nil(t, s.Email)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestValidate_Email(t *testing.T) {
	ctx := context.Background()

	s := NewSupplier("Acme Components")
	assert.NoError(t, s.Validate(ctx))

	s.Email = strPtr("sales@acme.example.com")
	assert.NoError(t, s.Validate(ctx))

	// An empty email string is treated as not provided.
	s.Email = strPtr("")
	assert.NoError(t, s.Validate(ctx))

	s.Email = strPtr("not-an-email")
	err := s.Validate(ctx)
	assert.True(t, apperror.IsValidation(err))

	s = &Supplier{}
	err = s.Validate(ctx)
	assert.True(t, apperror.IsValidation(err))
}
