package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/middleware"
)

// StudyGroupController handles study groups
type StudyGroupController struct {
	groupService services.StudyGroupService
}

// NewStudyGroupController creates a new StudyGroupController
func NewStudyGroupController(groupService services.StudyGroupService) *StudyGroupController {
	return &StudyGroupController{groupService: groupService}
}

// ListStudyGroups godoc
// @Summary List study groups of a class
// @Tags study-groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]interface{}
// @Router /classes/{id}/study-groups [get]
func (gc *StudyGroupController) ListStudyGroups(c *gin.Context) {
	groups, err := gc.groupService.ListStudyGroups(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studyGroups": groups, "count": len(groups)})
}

// CreateStudyGroup godoc
// @Summary Create a study group
// @Tags study-groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param request body dto.CreateStudyGroupRequest true "Group"
// @Success 201 {object} map[string]dto.StudyGroupResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id}/study-groups [post]
func (gc *StudyGroupController) CreateStudyGroup(c *gin.Context) {
	var req dto.CreateStudyGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	group, err := gc.groupService.CreateStudyGroup(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"studyGroup": group})
}

// GetStudyGroup godoc
// @Summary Get a study group
// @Tags study-groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study group ID"
// @Success 200 {object} map[string]dto.StudyGroupResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-groups/{id} [get]
func (gc *StudyGroupController) GetStudyGroup(c *gin.Context) {
	group, err := gc.groupService.GetStudyGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studyGroup": group})
}

// JoinStudyGroup godoc
// @Summary Join a study group
// @Tags study-groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study group ID"
// @Success 200 {object} map[string]dto.StudyGroupResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-groups/{id}/join [post]
func (gc *StudyGroupController) JoinStudyGroup(c *gin.Context) {
	group, err := gc.groupService.JoinStudyGroup(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studyGroup": group})
}

// LeaveStudyGroup godoc
// @Summary Leave a study group
// @Tags study-groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Study group ID"
// @Success 200 {object} map[string]dto.StudyGroupResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /study-groups/{id}/leave [post]
func (gc *StudyGroupController) LeaveStudyGroup(c *gin.Context) {
	group, err := gc.groupService.LeaveStudyGroup(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studyGroup": group})
}
