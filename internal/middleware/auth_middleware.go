package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/auth"
)

// Context keys set by the auth gate
const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

// AuthMiddleware resolves bearer tokens to users
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      repositories.UserRepository
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users repositories.UserRepository, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger,
	}
}

// JWTAuth requires an "Authorization: Bearer <token>" header
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return m.handler(false)
}

// WebsocketAuth also accepts the token as a "token" query parameter,
// since browsers cannot set headers on websocket handshakes
func (m *AuthMiddleware) WebsocketAuth() gin.HandlerFunc {
	return m.handler(true)
}

func (m *AuthMiddleware) handler(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := m.extractToken(c, allowQuery)
		if err != nil {
			abortUnauthorized(c, "No token, authorization denied")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			msg := "Token is not valid"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				msg = "Token has expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUserNotFound) {
				m.logger.Error().Err(err).Str("userID", claims.UserID).Msg("Failed to load user for token")
			}
			abortUnauthorized(c, "Token is not valid")
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user.Sanitized())
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context, allowQuery bool) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.ExtractBearerToken(header)
	}
	if allowQuery {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
	}
	return "", apperrors.ErrTokenInvalid
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: message})
}

// GetUserID returns the authenticated user's id, or "" outside the auth gate
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetUser returns the authenticated user without its password hash
func GetUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
