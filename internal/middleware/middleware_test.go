package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/repositories/memory"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestAuthMiddleware(t *testing.T) {
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Users.Create(context.Background(), &models.User{ID: "u1", Name: "alice", Email: "alice@school.edu", Password: "hash"}))

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "studbuds"})
	valid, _, err := jwtService.GenerateToken("u1", "alice@school.edu")
	require.NoError(t, err)
	ghost, _, err := jwtService.GenerateToken("u2", "ghost@school.edu")
	require.NoError(t, err)
	otherSecret, _, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", TokenExp: time.Hour}).GenerateToken("u1", "alice@school.edu")
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtService, repos.Users, zerolog.Nop())
	router := gin.New()
	handler := func(c *gin.Context) {
		user := GetUser(c)
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "name": user.Name, "password": user.Password})
	}
	router.GET("/me", m.JWTAuth(), handler)
	router.GET("/ws", m.WebsocketAuth(), handler)

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"not bearer", "/me", "Token " + valid, http.StatusUnauthorized},
		{"wrong secret", "/me", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"deleted user", "/me", "Bearer " + ghost, http.StatusUnauthorized},
		{"valid", "/me", "Bearer " + valid, http.StatusOK},
		{"query token ignored on api routes", "/me?token=" + valid, "", http.StatusUnauthorized},
		{"query token on websocket route", "/ws?token=" + valid, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"id":"u1","name":"alice","password":""}`, w.Body.String())
			} else {
				assert.NotEmpty(t, decodeMessage(t, w))
			}
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{"validation", apperrors.NewValidationError("Post content is required"), http.StatusBadRequest, "Post content is required"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"forbidden", apperrors.ErrNotClassMember, http.StatusForbidden, "You must be a member of this class"},
		{"not found wrapped", fmt.Errorf("loading: %w", apperrors.ErrClassNotFound), http.StatusNotFound, "Class not found"},
		{"conflict", apperrors.ErrEmailAlreadyExists, http.StatusConflict, "User already exists with this email"},
		{"bare kind", apperrors.ErrResourceNotFound, http.StatusNotFound, "Resource not found"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMessage, decodeMessage(t, w))
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, SplitOrigins(" http://a.test ,, http://b.test"))
	assert.Nil(t, SplitOrigins(""))
}
