package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email,edu_email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestMessages(t *testing.T) {
	validate := validator.New()
	v, err := Register(validate, ".edu")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   signup
		want string
	}{
		{"missing name", signup{Email: "a@school.edu", Password: "pw123456"}, "name is a required field"},
		{"blank name", signup{Name: "  ", Email: "a@school.edu", Password: "pw123456"}, "name is required"},
		{"wrong domain", signup{Name: "a", Email: "a@gmail.com", Password: "pw123456"}, "Please use your university email (.edu)"},
		{"short password", signup{Name: "a", Email: "a@school.edu", Password: "123"}, "password must be at least 6 characters in length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, v.Message(err))
		})
	}

	assert.NoError(t, validate.Struct(signup{Name: "a", Email: "A@School.EDU", Password: "pw123456"}))
	assert.Equal(t, "Invalid request body", v.Message(errors.New("unexpected EOF")))
}
