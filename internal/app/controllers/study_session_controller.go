package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/middleware"
)

// StudySessionController handles logged study time
type StudySessionController struct {
	sessionService services.StudySessionService
}

// NewStudySessionController creates a new StudySessionController
func NewStudySessionController(sessionService services.StudySessionService) *StudySessionController {
	return &StudySessionController{sessionService: sessionService}
}

// ListStudySessions godoc
// @Summary List study sessions of a class
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param limit query int false "Maximum sessions (default 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{id}/study-sessions [get]
func (sc *StudySessionController) ListStudySessions(c *gin.Context) {
	var query dto.ListStudySessionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	sessions, err := sc.sessionService.ListStudySessions(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), query.Limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studySessions": sessions, "count": len(sessions)})
}

// CreateStudySession godoc
// @Summary Log a study session
// @Tags study-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param request body dto.CreateStudySessionRequest true "Session"
// @Success 201 {object} map[string]dto.StudySessionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{id}/study-sessions [post]
func (sc *StudySessionController) CreateStudySession(c *gin.Context) {
	var req dto.CreateStudySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	session, err := sc.sessionService.CreateStudySession(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"studySession": session})
}

// GetStats godoc
// @Summary Caller's study stats in a class
// @Description Totals, average and current day streak
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]dto.StudyStatsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id}/study-sessions/stats [get]
func (sc *StudySessionController) GetStats(c *gin.Context) {
	stats, err := sc.sessionService.GetUserStudyStats(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// LikeStudySession godoc
// @Summary Toggle a like on a study session
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study session ID"
// @Success 200 {object} dto.LikeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-sessions/{id}/like [post]
func (sc *StudySessionController) LikeStudySession(c *gin.Context) {
	resp, err := sc.sessionService.LikeStudySession(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddComment godoc
// @Summary Comment on a study session
// @Tags study-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study session ID"
// @Param request body dto.AddCommentRequest true "Comment"
// @Success 201 {object} map[string]dto.StudySessionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /study-sessions/{id}/comments [post]
func (sc *StudySessionController) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	session, err := sc.sessionService.AddComment(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"studySession": session})
}

// DeleteStudySession godoc
// @Summary Delete a study session
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study session ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-sessions/{id} [delete]
func (sc *StudySessionController) DeleteStudySession(c *gin.Context) {
	if err := sc.sessionService.DeleteStudySession(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Study session deleted"})
}
