package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories/memory"
	"github.com/yigit/studbuds/internal/bootstrap"
	"github.com/yigit/studbuds/internal/config"
	"github.com/yigit/studbuds/internal/pkg/auth"
	"github.com/yigit/studbuds/internal/pkg/logger"
	"github.com/yigit/studbuds/pkg/client"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func newTestServer(t *testing.T) string {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.CORSOrigin = "*"
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = "1h"
	cfg.JWT.Issuer = "studbuds-test"
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.MaxSize = 1 << 20
	cfg.App.EmailSuffix = ".edu"

	lgr := logger.Nop()
	deps, err := bootstrap.BuildDependencies(cfg, memory.NewStore(), lgr)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go deps.Hub.Run(ctx)

	srv := httptest.NewServer(bootstrap.SetupRouter(cfg, deps, lgr))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv.URL + "/api"
}

func register(t *testing.T, c *client.Client, name string) *dto.AuthResponse {
	t.Helper()
	resp, err := c.Register(context.Background(), dto.RegisterRequest{
		Name:     name,
		Email:    name + "@school.edu",
		Password: "pw123456",
		Major:    "CS",
	})
	require.NoError(t, err)
	return resp
}

func TestClassFeedEndToEnd(t *testing.T) {
	ctx := context.Background()
	baseURL := newTestServer(t)

	require.NoError(t, client.New(baseURL).Health(ctx))

	alice := client.New(baseURL)
	registered := register(t, alice, "alice")
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice@school.edu", registered.User.Email)

	loggedIn, err := alice.Login(ctx, "alice@school.edu", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	class, err := alice.CreateClass(ctx, dto.CreateClassRequest{Name: "Algorithms", Code: "cs1"})
	require.NoError(t, err)
	assert.Equal(t, "CS1", class.Code)

	joined, err := alice.JoinClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, joined.MemberCount)

	post, err := alice.CreatePost(ctx, class.ID, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, models.PostTypeChat, post.Type)

	posts, err := alice.ListPosts(ctx, class.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Content)
	assert.Equal(t, "alice", posts[0].Author.Name)

	me, err := alice.Me(ctx)
	require.NoError(t, err)
	require.Len(t, me.Classes, 1)
	assert.Equal(t, "CS1", me.Classes[0].Code)
}

func TestAPIErrors(t *testing.T) {
	ctx := context.Background()
	baseURL := newTestServer(t)

	_, err := client.New(baseURL).Register(ctx, dto.RegisterRequest{
		Name: "mallory", Email: "mallory@gmail.com", Password: "pw123456", Major: "CS",
	})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, ".edu")

	_, err = client.New(baseURL).Login(ctx, "nobody@school.edu", "pw123456")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	alice := client.New(baseURL)
	register(t, alice, "alice")
	class, err := alice.CreateClass(ctx, dto.CreateClassRequest{Name: "Algorithms", Code: "CS1"})
	require.NoError(t, err)

	_, err = alice.CreatePost(ctx, class.ID, "hello", models.PostTypeChat)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, err = client.New(baseURL).ListPosts(ctx, class.ID, 0)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "No token, authorization denied", apiErr.Message)
}

func TestDirectMessagesEndToEnd(t *testing.T) {
	ctx := context.Background()
	baseURL := newTestServer(t)

	alice := client.New(baseURL)
	aliceAuth := register(t, alice, "alice")
	bob := client.New(baseURL)
	register(t, bob, "bob")

	sent, err := bob.SendMessage(ctx, aliceAuth.User.ID, "hi alice")
	require.NoError(t, err)
	assert.Equal(t, "bob", sent.Sender.Name)
	assert.False(t, sent.Read)

	unread, err := alice.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	convs, err := alice.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "bob", convs[0].User.Name)
	assert.Equal(t, 1, convs[0].UnreadCount)
}
