package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories/memory"
	"github.com/yigit/studbuds/internal/bootstrap"
	"github.com/yigit/studbuds/internal/config"
	"github.com/yigit/studbuds/internal/pkg/auth"
	"github.com/yigit/studbuds/internal/pkg/logger"
)

func TestRoutes(t *testing.T) {
	auth.BcryptCost = bcrypt.MinCost

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.CORSOrigin = "*"
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = "1h"
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.MaxSize = 1 << 20
	cfg.App.EmailSuffix = ".edu"

	deps, err := bootstrap.BuildDependencies(cfg, memory.NewStore(), logger.Nop())
	require.NoError(t, err)
	router := bootstrap.SetupRouter(cfg, deps, logger.Nop())

	ctx := context.Background()
	alice, err := deps.UserService.Register(ctx, dto.RegisterRequest{
		Name: "alice", Email: "alice@school.edu", Password: "pw123456", Major: "CS",
	})
	require.NoError(t, err)
	class, err := deps.ClassService.CreateClass(ctx, "", dto.CreateClassRequest{Name: "Algorithms", Code: "CS1"})
	require.NoError(t, err)

	token := alice.Token
	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		token    string
		wantCode int
	}{
		{"health", http.MethodGet, "/api/health", "", "", http.StatusOK},
		{"register malformed body", http.MethodPost, "/api/users/register", `{"name":`, "", http.StatusBadRequest},
		{"register missing major", http.MethodPost, "/api/users/register", `{"name":"bob","email":"bob@school.edu","password":"pw123456"}`, "", http.StatusBadRequest},
		{"register duplicate email", http.MethodPost, "/api/users/register", `{"name":"a","email":"alice@school.edu","password":"pw123456","major":"CS"}`, "", http.StatusConflict},
		{"register", http.MethodPost, "/api/users/register", `{"name":"bob","email":"bob@school.edu","password":"pw123456","major":"CS"}`, "", http.StatusCreated},
		{"login wrong password", http.MethodPost, "/api/users/login", `{"email":"alice@school.edu","password":"nope"}`, "", http.StatusUnauthorized},
		{"me without token", http.MethodGet, "/api/users/me", "", "", http.StatusUnauthorized},
		{"me with garbage token", http.MethodGet, "/api/users/me", "", "garbage", http.StatusUnauthorized},
		{"me", http.MethodGet, "/api/users/me", "", token, http.StatusOK},
		{"unknown user", http.MethodGet, "/api/users/does-not-exist", "", token, http.StatusNotFound},
		{"list classes", http.MethodGet, "/api/classes?search=cs", "", token, http.StatusOK},
		{"class by code", http.MethodGet, "/api/classes/code/cs1", "", token, http.StatusOK},
		{"unknown class", http.MethodGet, "/api/classes/does-not-exist", "", token, http.StatusNotFound},
		{"duplicate class code", http.MethodPost, "/api/classes", `{"name":"Again","code":"cs1"}`, token, http.StatusConflict},
		{"posts before joining", http.MethodGet, "/api/classes/" + class.ID + "/posts", "", token, http.StatusForbidden},
		{"join class", http.MethodPost, "/api/classes/" + class.ID + "/join", "", token, http.StatusOK},
		{"post blank content", http.MethodPost, "/api/classes/" + class.ID + "/posts", `{"content":"   "}`, token, http.StatusBadRequest},
		{"post bad type", http.MethodPost, "/api/classes/" + class.ID + "/posts", `{"content":"hi","type":"rant"}`, token, http.StatusBadRequest},
		{"post", http.MethodPost, "/api/classes/" + class.ID + "/posts", `{"content":"hi"}`, token, http.StatusCreated},
		{"posts after joining", http.MethodGet, "/api/classes/" + class.ID + "/posts?limit=10", "", token, http.StatusOK},
		{"stats", http.MethodGet, "/api/classes/" + class.ID + "/study-sessions/stats", "", token, http.StatusOK},
		{"session zero duration", http.MethodPost, "/api/classes/" + class.ID + "/study-sessions", `{"type":"timer","duration":0,"topic":"graphs"}`, token, http.StatusBadRequest},
		{"session duration overflow", http.MethodPost, "/api/classes/" + class.ID + "/study-sessions", `{"type":"timer","duration":"99999999999","topic":"graphs","whatILearned":"bfs"}`, token, http.StatusBadRequest},
		{"message to unknown user", http.MethodPost, "/api/messages", `{"receiverId":"does-not-exist","content":"hi"}`, token, http.StatusNotFound},
		{"friend self", http.MethodPost, "/api/users/add-friend/" + alice.User.ID, "", token, http.StatusBadRequest},
		{"unread count", http.MethodGet, "/api/messages/unread-count", "", token, http.StatusOK},
		{"message ws without token", http.MethodGet, "/api/messages/ws", "", "", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/nope", "", token, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}
