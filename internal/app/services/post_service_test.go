package services

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/websocket"
)

func TestCreatePostRequiresMembership(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	class := f.class(t, "CS1", alice.ID)

	_, err := f.posts.CreatePost(f.ctx, bob.ID, class.ID, dto.CreatePostRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotClassMember)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.posts.CreatePost(f.ctx, alice.ID, "missing", dto.CreatePostRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	_, err = f.posts.CreatePost(f.ctx, alice.ID, class.ID, dto.CreatePostRequest{Content: strings.Repeat("é", 1001)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	post, err := f.posts.CreatePost(f.ctx, alice.ID, class.ID, dto.CreatePostRequest{Content: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, models.PostTypeChat, post.Type)
	assert.Equal(t, "alice", post.Author.Name)

	ev := f.notifier.last()
	assert.Equal(t, websocket.ClassRoom(class.ID), ev.room)
	assert.Equal(t, websocket.EventPostCreated, ev.eventType)
}

func TestListPostsOldestFirst(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	class := f.class(t, "CS1", alice.ID)

	for _, content := range []string{"one", "two", "three"} {
		postType := models.PostTypeChat
		if content == "two" {
			postType = models.PostTypeQuestion
		}
		_, err := f.posts.CreatePost(f.ctx, alice.ID, class.ID, dto.CreatePostRequest{Content: content, Type: postType})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	posts, err := f.posts.ListPosts(f.ctx, alice.ID, class.ID, dto.ListPostsQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{posts[0].Content, posts[1].Content, posts[2].Content})

	// The limit keeps the newest posts
	posts, err = f.posts.ListPosts(f.ctx, alice.ID, class.ID, dto.ListPostsQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, []string{posts[0].Content, posts[1].Content})

	posts, err = f.posts.ListPosts(f.ctx, alice.ID, class.ID, dto.ListPostsQuery{Type: models.PostTypeQuestion})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "two", posts[0].Content)
}

func TestEditAndDeletePost(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	class := f.class(t, "CS1", alice.ID, bob.ID)

	post, err := f.posts.CreatePost(f.ctx, alice.ID, class.ID, dto.CreatePostRequest{Content: "draft"})
	require.NoError(t, err)

	_, err = f.posts.EditPost(f.ctx, bob.ID, post.ID, dto.UpdatePostRequest{Content: "mine now"})
	assert.ErrorIs(t, err, authz.ErrNotPostAuthor)

	f.clock.Advance(time.Minute)
	edited, err := f.posts.EditPost(f.ctx, alice.ID, post.ID, dto.UpdatePostRequest{Content: "final"})
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Content)
	require.NotNil(t, edited.EditedAt)
	assert.Equal(t, websocket.EventPostUpdated, f.notifier.last().eventType)

	_, err = f.posts.DeletePost(f.ctx, bob.ID, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	deleted, err := f.posts.DeletePost(f.ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeletedPostContent, deleted.Content)
	require.NotNil(t, deleted.DeletedAt)
	assert.Equal(t, websocket.EventPostDeleted, f.notifier.last().eventType)

	again, err := f.posts.DeletePost(f.ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, deleted.DeletedAt, again.DeletedAt)

	_, err = f.posts.EditPost(f.ctx, alice.ID, post.ID, dto.UpdatePostRequest{Content: "back"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	posts, err := f.posts.ListPosts(f.ctx, alice.ID, class.ID, dto.ListPostsQuery{})
	require.NoError(t, err)
	assert.Empty(t, posts)

	got, err := f.posts.GetPost(f.ctx, post.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	_, err = f.posts.GetPost(f.ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostServiceWithoutRealtime(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	class := f.class(t, "CS1", alice.ID)

	posts := NewPostService(f.repos, authz.NewAuthorizationService(f.repos.Classes), NopNotifier{}, f.clock.Now, zerolog.Nop())
	_, err := posts.CreatePost(f.ctx, alice.ID, class.ID, dto.CreatePostRequest{Content: "quiet"})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.events)

	list, err := posts.ListPosts(f.ctx, alice.ID, class.ID, dto.ListPostsQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "quiet", list[0].Content)
}
