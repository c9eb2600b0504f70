package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches by code", func(t *testing.T) {
		err := NewInvalidStateError("already received")
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("failed to settle: %w", NewConflictError("linked to a payable or receivable"))
		assert.True(t, errors.Is(err, ErrConflict))

		var domainErr *DomainError
		assert.True(t, errors.As(err, &domainErr))
		assert.Equal(t, CodeConflict, domainErr.Code)
		assert.Equal(t, "linked to a payable or receivable", domainErr.Message)
	})

	t.Run("does not match foreign errors", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("boom"), ErrNotFound))
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *DomainError
		code string
	}{
		{"not found", NewNotFoundError("payable %s not found", "x"), CodeNotFound},
		{"invalid state", NewInvalidStateError("cancelled, cannot settle"), CodeInvalidState},
		{"conflict", NewConflictError("linked"), CodeConflict},
		{"forbidden", NewForbiddenError("other branch"), CodeForbidden},
		{"validation", NewValidationError("amount must be positive"), CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}
