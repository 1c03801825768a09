package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

func TestStudyGroupMembership(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	class := f.class(t, "CS1")

	_, err := f.groups.CreateStudyGroup(f.ctx, alice.ID, class.ID, dto.CreateStudyGroupRequest{Name: " "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = f.groups.CreateStudyGroup(f.ctx, alice.ID, "missing", dto.CreateStudyGroupRequest{Name: "Crammers"})
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	at := f.clock.Now().Add(48 * time.Hour)
	group, err := f.groups.CreateStudyGroup(f.ctx, alice.ID, class.ID, dto.CreateStudyGroupRequest{Name: "Crammers", ScheduledAt: &at, Location: "Library"})
	require.NoError(t, err)
	assert.Equal(t, "alice", group.CreatedBy.Name)
	require.Len(t, group.Members, 1)
	assert.Equal(t, alice.ID, group.Members[0].ID)
	assert.Equal(t, 1, group.MemberCount)

	for i := 0; i < 2; i++ {
		group, err = f.groups.JoinStudyGroup(f.ctx, bob.ID, group.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, group.MemberCount)
	}
	assert.Equal(t, []string{alice.ID, bob.ID}, []string{group.Members[0].ID, group.Members[1].ID})

	group, err = f.groups.LeaveStudyGroup(f.ctx, bob.ID, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, group.MemberCount)

	groups, err := f.groups.ListStudyGroups(f.ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Library", groups[0].Location)

	_, err = f.groups.JoinStudyGroup(f.ctx, bob.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrStudyGroupNotFound)
}

func TestListStudyGroupsUnknownClass(t *testing.T) {
	f := newFixture(t)
	class := f.class(t, "CS1")

	groups, err := f.groups.ListStudyGroups(f.ctx, class.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = f.groups.ListStudyGroups(f.ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}
