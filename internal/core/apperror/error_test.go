package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories_StatusAndCode(t *testing.T) {
	cases := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidation("bad input"), CodeValidation, http.StatusBadRequest},
		{"not found", NewNotFound("product", "abc"), CodeNotFound, http.StatusNotFound},
		{"unauthorized", NewUnauthorized("no session"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("admins only"), CodeForbidden, http.StatusForbidden},
		{"conflict", NewConflict("in use"), CodeConflict, http.StatusConflict},
		{"duplicate", NewDuplicate("product", "sku", "KB-0001"), CodeDuplicate, http.StatusConflict},
		{"no stock", NewNoStockToWithdraw("p1", "w1"), CodeNoStockToWithdraw, http.StatusUnprocessableEntity},
		{"database", NewDatabase(errors.New("boom")), CodeDatabase, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantCode, tc.err.Code)
			assert.Equal(t, tc.wantStatus, tc.err.HTTPStatus)
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func TestWithDetailAndCause(t *testing.T) {
	cause := errors.New("unique_violation")
	err := NewValidation("quantity must be positive").
		WithDetail("field", "quantity").
		WithDetail("value", -3).
		WithCause(cause)

	assert.Equal(t, "quantity", err.Details["field"])
	assert.Equal(t, -3, err.Details["value"])
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unique_violation")
}

func TestAsAppError_UnwrapsWrappedChain(t *testing.T) {
	inner := NewNotFound("warehouse", "w1")
	wrapped := fmt.Errorf("load warehouse: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestPredicates_PlainErrors(t *testing.T) {
	plain := errors.New("plain")

	assert.False(t, IsAppError(plain))
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsValidation(plain))
	assert.False(t, IsUnauthorized(plain))
	assert.False(t, IsDuplicate(plain))
	assert.False(t, IsNoStockToWithdraw(plain))
}

func TestNoStockToWithdraw_CarriesPair(t *testing.T) {
	err := NewNoStockToWithdraw("prod-1", "wh-2")
	assert.Equal(t, "prod-1", err.Details["product_id"])
	assert.Equal(t, "wh-2", err.Details["warehouse_id"])
	assert.True(t, IsNoStockToWithdraw(err))
}
