package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"missing major", dto.RegisterRequest{Name: "bob", Email: "bob@school.edu", Password: "pw123456"}},
		{"blank name", dto.RegisterRequest{Name: "   ", Email: "bob@school.edu", Password: "pw123456", Major: "CS"}},
		{"wrong domain", dto.RegisterRequest{Name: "bob", Email: "bob@gmail.com", Password: "pw123456", Major: "CS"}},
		{"malformed email", dto.RegisterRequest{Name: "bob", Email: "not-an-email.edu", Password: "pw123456", Major: "CS"}},
		{"short password", dto.RegisterRequest{Name: "bob", Email: "bob@school.edu", Password: "12345", Major: "CS"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(f.ctx, tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	resp, err := f.users.Register(f.ctx, dto.RegisterRequest{Name: "alice", Email: "Alice@School.edu", Password: "pw123456", Major: "CS"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@school.edu", resp.User.Email)
	assert.Empty(t, resp.User.Friends)

	_, err = f.users.Register(f.ctx, dto.RegisterRequest{Name: "alice2", Email: "ALICE@school.edu", Password: "pw123456", Major: "CS"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	login, err := f.users.Login(f.ctx, dto.LoginRequest{Email: "alice@SCHOOL.edu", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = f.users.Login(f.ctx, dto.LoginRequest{Email: "alice@school.edu", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.users.Login(f.ctx, dto.LoginRequest{Email: "nobody@school.edu", Password: "pw123456"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSearchExcludesCaller(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	f.register(t, "alicia")
	f.register(t, "bob")

	_, err := f.users.Search(f.ctx, alice.ID, "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	found, err := f.users.Search(f.ctx, alice.ID, "ALI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alicia", found[0].Name)
}

func TestFriendsAreOneDirectional(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.users.AddFriend(f.ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.users.AddFriend(f.ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	me, err := f.users.AddFriend(f.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, me.Friends)

	me, err = f.users.AddFriend(f.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, me.Friends, 1)

	friends, err := f.users.ListFriends(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	friends, err = f.users.ListFriends(f.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Name)

	me, err = f.users.RemoveFriend(f.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, me.Friends)
}

func TestUpdateProfileAndGetMe(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	class := f.class(t, "cs1", alice.ID)

	blank := " "
	_, err := f.users.UpdateProfile(f.ctx, alice.ID, dto.UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	bio := "likes graphs"
	updated, err := f.users.UpdateProfile(f.ctx, alice.ID, dto.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "likes graphs", updated.Bio)
	assert.Equal(t, "alice", updated.Name)

	me, err := f.users.GetMe(f.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, me.Classes, 1)
	assert.Equal(t, class.ID, me.Classes[0].ID)
	assert.Equal(t, "CS1", me.Classes[0].Code)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	assert.ErrorIs(t, f.users.ResetPassword(f.ctx, "alice@school.edu", "123"), apperrors.ErrValidationFailed)
	require.NoError(t, f.users.ResetPassword(f.ctx, "alice@school.edu", "newpass1"))

	_, err := f.users.Login(f.ctx, dto.LoginRequest{Email: "alice@school.edu", Password: "pw123456"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.users.Login(f.ctx, dto.LoginRequest{Email: "alice@school.edu", Password: "newpass1"})
	assert.NoError(t, err)
}
