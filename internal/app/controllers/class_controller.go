package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/middleware"
	"github.com/yigit/studbuds/internal/pkg/websocket"
)

// ClassController handles the class catalogue, membership and the class feed socket
type ClassController struct {
	classService services.ClassService
	authz        *authz.AuthorizationService
	ws           *websocket.Handler
}

// NewClassController creates a new ClassController
func NewClassController(classService services.ClassService, authzService *authz.AuthorizationService, ws *websocket.Handler) *ClassController {
	return &ClassController{classService: classService, authz: authzService, ws: ws}
}

// ListClasses godoc
// @Summary List classes
// @Description Filters by a case-insensitive substring of name or code
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or code filter"
// @Success 200 {object} map[string]interface{}
// @Router /classes [get]
func (cc *ClassController) ListClasses(c *gin.Context) {
	classes, err := cc.classService.ListClasses(c.Request.Context(), c.Query("search"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes, "count": len(classes)})
}

// CreateClass godoc
// @Summary Create a class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassRequest true "Class details"
// @Success 201 {object} map[string]dto.ClassResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /classes [post]
func (cc *ClassController) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	class, err := cc.classService.CreateClass(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"class": class})
}

// GetClassByCode godoc
// @Summary Find a class by code
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param code path string true "Class code"
// @Success 200 {object} map[string]dto.ClassResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/code/{code} [get]
func (cc *ClassController) GetClassByCode(c *gin.Context) {
	class, err := cc.classService.GetClassByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class})
}

// GetClass godoc
// @Summary Get a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]dto.ClassResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id} [get]
func (cc *ClassController) GetClass(c *gin.Context) {
	class, err := cc.classService.GetClassByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class})
}

// JoinClass godoc
// @Summary Join a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]dto.ClassResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id}/join [post]
func (cc *ClassController) JoinClass(c *gin.Context) {
	class, err := cc.classService.JoinClass(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class})
}

// LeaveClass godoc
// @Summary Leave a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]dto.ClassResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id}/leave [post]
func (cc *ClassController) LeaveClass(c *gin.Context) {
	class, err := cc.classService.LeaveClass(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class})
}

// ListMembers godoc
// @Summary List class members
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id}/members [get]
func (cc *ClassController) ListMembers(c *gin.Context) {
	members, err := cc.classService.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}

// Websocket upgrades a class member to the class event stream
// @Summary Class event stream
// @Tags classes
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param token query string false "Token, when headers cannot be set"
// @Success 101
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{id}/ws [get]
func (cc *ClassController) Websocket(c *gin.Context) {
	classID, userID := c.Param("id"), middleware.GetUserID(c)
	if err := cc.authz.RequireClassMember(c.Request.Context(), classID, userID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	cc.ws.Serve(c, websocket.ClassRoom(classID), userID)
}
