package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

func TestCreateClassNormalizesCode(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	class, err := f.classes.CreateClass(f.ctx, alice.ID, dto.CreateClassRequest{Name: "Algorithms", Code: " cs101 "})
	require.NoError(t, err)
	assert.Equal(t, "CS101", class.Code)
	assert.Equal(t, alice.ID, class.CreatedBy)
	assert.Empty(t, class.Members)

	_, err = f.classes.CreateClass(f.ctx, alice.ID, dto.CreateClassRequest{Name: "Other", Code: "Cs101"})
	assert.ErrorIs(t, err, apperrors.ErrClassCodeExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.classes.CreateClass(f.ctx, alice.ID, dto.CreateClassRequest{Name: "", Code: "X"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	byCode, err := f.classes.GetClassByCode(f.ctx, "cs101")
	require.NoError(t, err)
	assert.Equal(t, class.ID, byCode.ID)
}

func TestJoinAndLeaveAreIdempotent(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	class := f.class(t, "CS1")

	for i := 0; i < 2; i++ {
		resp, err := f.classes.JoinClass(f.ctx, alice.ID, class.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.MemberCount)
	}
	resp, err := f.classes.JoinClass(f.ctx, bob.ID, class.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, bob.ID}, resp.Members)
	assert.Equal(t, 2, resp.MemberCount)

	members, err := f.classes.ListMembers(f.ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Name)

	for i := 0; i < 2; i++ {
		resp, err = f.classes.LeaveClass(f.ctx, alice.ID, class.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{bob.ID}, resp.Members)
	}

	_, err = f.classes.JoinClass(f.ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}

func TestListClassesFiltersByNameOrCode(t *testing.T) {
	f := newFixture(t)
	_, err := f.classes.CreateClass(f.ctx, "", dto.CreateClassRequest{Name: "Data Structures", Code: "CS201"})
	require.NoError(t, err)
	_, err = f.classes.CreateClass(f.ctx, "", dto.CreateClassRequest{Name: "Calculus", Code: "MATH101"})
	require.NoError(t, err)

	all, err := f.classes.ListClasses(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := f.classes.ListClasses(f.ctx, "structures")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CS201", found[0].Code)

	found, err = f.classes.ListClasses(f.ctx, "math")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Calculus", found[0].Name)
}
