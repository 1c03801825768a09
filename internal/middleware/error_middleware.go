package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/logger"
)

var errorStatuses = []struct {
	kind    error
	status  int
	message string
}{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, "Validation failed"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Not authorized"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, "Permission denied"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, "Resource not found"},
	{apperrors.ErrConflict, http.StatusConflict, "Resource already exists"},
}

// HandleAPIError writes the status and {message} for err. Errors that carry
// no known kind are logged, reported and answered with a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.kind) {
			continue
		}
		message := e.message
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		c.AbortWithStatusJSON(e.status, dto.ErrorResponse{Message: message})
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Request body too large"})
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("userID", GetUserID(c)).
		Msg("Unhandled error")
	logger.Report(err, map[string]interface{}{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"userID": GetUserID(c),
	})
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Server error"})
}
