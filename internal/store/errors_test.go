package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "wrapped ErrProductNotFound", err: fmt.Errorf("lookup: %w", ErrProductNotFound), expected: true},
		{name: "ErrTokenNotFound", err: ErrTokenNotFound, expected: true},
		{name: "duplicate is not not-found", err: ErrAccountExists, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrAccountExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrEmailExists)))
	assert.False(t, IsDuplicateError(ErrUserNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrUserNotFound, domain.ErrNotFound)
	assert.ErrorIs(t, ErrProductNotFound, domain.ErrNotFound)
	assert.ErrorIs(t, ErrAccountExists, domain.ErrDuplicateKey)
	assert.ErrorIs(t, ErrEmailExists, domain.ErrDuplicateKey)
	assert.ErrorIs(t, ErrInvalidEntity, domain.ErrValidation)
	assert.NotErrorIs(t, ErrAccountExists, ErrEmailExists)
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("user", "create", "insert failed", ErrAccountExists)
		assert.Equal(t,
			"create operation on user failed: insert failed: entity already exists: duplicate key: account",
			err.Error())
		assert.ErrorIs(t, err, ErrAccountExists)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "user", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("product", "get", "no rows", nil)
		assert.Equal(t, "get operation on product failed: no rows", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
