package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{"validation", NewValidationError("Name is required"), ErrValidationFailed, "Name is required"},
		{"forbidden", NewForbiddenError("Not yours"), ErrPermissionDenied, "Not yours"},
		{"not found", ErrClassNotFound, ErrResourceNotFound, "Class not found"},
		{"conflict", ErrEmailAlreadyExists, ErrConflict, "User already exists with this email"},
		{"wrapped", fmt.Errorf("repo: %w", ErrPostNotFound), ErrResourceNotFound, "Post not found"},
		{"credentials", ErrInvalidCredentials, ErrUnauthorized, "Invalid credentials"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, errors.Is(tc.err, tc.kind))
			assert.Equal(t, tc.msg, Message(tc.err, "fallback"))
		})
	}
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "Server error", Message(errors.New("boom"), "Server error"))
	assert.True(t, Is(ErrNotClassMember, ErrConflict, ErrPermissionDenied))
	assert.False(t, Is(ErrNotClassMember, ErrConflict))
}
