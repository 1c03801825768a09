package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

func TestClassMembershipIsASet(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.Classes.Create(ctx, &models.Class{ID: "c1", Name: "Algorithms", Code: "CS1"}))
	assert.ErrorIs(t, repos.Classes.Create(ctx, &models.Class{ID: "c2", Name: "Dup", Code: "CS1"}), apperrors.ErrClassCodeExists)

	require.NoError(t, repos.Classes.AddMember(ctx, "c1", "u1"))
	require.NoError(t, repos.Classes.AddMember(ctx, "c1", "u1"))
	require.NoError(t, repos.Classes.AddMember(ctx, "c1", "u2"))

	class, err := repos.Classes.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, class.Members)
	assert.Equal(t, 2, class.MemberCount())

	require.NoError(t, repos.Classes.RemoveMember(ctx, "c1", "u1"))
	require.NoError(t, repos.Classes.RemoveMember(ctx, "c1", "u1"))
	ok, err := repos.Classes.IsMember(ctx, "c1", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repos.Classes.IsMember(ctx, "missing", "u1")
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "u1", Email: "a@school.edu", Friends: []string{}}))
	u, err := repos.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	u.Friends = append(u.Friends, "u2")
	u.Email = "changed@school.edu"

	again, err := repos.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, again.Friends)
	assert.Equal(t, "a@school.edu", again.Email)
}

func TestPostListingOrderAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, repos.Posts.Create(ctx, &models.Post{
			ID: id, ClassID: "c1", Content: id, Type: models.PostTypeChat,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Same timestamp as p3, inserted later
	require.NoError(t, repos.Posts.Create(ctx, &models.Post{ID: "p4", ClassID: "c1", Content: "p4", Type: models.PostTypeQuestion, CreatedAt: base.Add(2 * time.Minute)}))

	posts, err := repos.Posts.ListByClass(ctx, repositories.PostFilter{ClassID: "c1", Limit: 3})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"p4", "p3", "p2"}, []string{posts[0].ID, posts[1].ID, posts[2].ID})

	deleted := base
	p2, err := repos.Posts.GetByID(ctx, "p2")
	require.NoError(t, err)
	p2.DeletedAt = &deleted
	require.NoError(t, repos.Posts.Update(ctx, p2))

	posts, err = repos.Posts.ListByClass(ctx, repositories.PostFilter{ClassID: "c1", Type: models.PostTypeChat})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestNoteLikeToggle(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	require.NoError(t, repos.Notes.Create(ctx, &models.Note{ID: "n1", ClassID: "c1", IsApproved: true}))

	liked, count, err := repos.Notes.ToggleLike(ctx, "n1", "u1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	liked, count, err = repos.Notes.ToggleLike(ctx, "n1", "u1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	n, err := repos.Notes.IncrementDownloads(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repos.Notes.Delete(ctx, "n1"))
	assert.ErrorIs(t, repos.Notes.Delete(ctx, "n1"), apperrors.ErrNoteNotFound)
}
