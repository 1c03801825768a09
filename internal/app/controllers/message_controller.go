package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/middleware"
	"github.com/yigit/studbuds/internal/pkg/websocket"
)

// MessageController handles direct messages and the personal event stream
type MessageController struct {
	messageService services.MessageService
	ws             *websocket.Handler
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService, ws *websocket.Handler) *MessageController {
	return &MessageController{messageService: messageService, ws: ws}
}

// SendMessage godoc
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} map[string]dto.DirectMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages [post]
func (mc *MessageController) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	msg, err := mc.messageService.SendMessage(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"directMessage": msg})
}

// GetConversations godoc
// @Summary List conversations
// @Description One entry per counterpart, most recent first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /messages/conversations [get]
func (mc *MessageController) GetConversations(c *gin.Context) {
	convs, err := mc.messageService.GetConversations(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs, "count": len(convs)})
}

// UnreadCount godoc
// @Summary Count unread messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UnreadCountResponse
// @Router /messages/unread-count [get]
func (mc *MessageController) UnreadCount(c *gin.Context) {
	count, err := mc.messageService.UnreadCount(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// GetMessages godoc
// @Summary Thread with a user
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Other user ID"
// @Success 200 {object} map[string]interface{}
// @Router /messages/{id} [get]
func (mc *MessageController) GetMessages(c *gin.Context) {
	messages, err := mc.messageService.GetMessages(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// MarkRead godoc
// @Summary Mark a message read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} map[string]dto.DirectMessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{id}/read [put]
func (mc *MessageController) MarkRead(c *gin.Context) {
	msg, err := mc.messageService.MarkRead(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directMessage": msg})
}

// DeleteMessage godoc
// @Summary Delete a sent message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{id} [delete]
func (mc *MessageController) DeleteMessage(c *gin.Context) {
	if err := mc.messageService.DeleteMessage(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Message deleted"})
}

// Websocket streams the caller's personal events: new, read and deleted messages
// @Summary Personal event stream
// @Tags messages
// @Security BearerAuth
// @Param token query string false "Token, when headers cannot be set"
// @Success 101
// @Router /messages/ws [get]
func (mc *MessageController) Websocket(c *gin.Context) {
	userID := middleware.GetUserID(c)
	mc.ws.Serve(c, websocket.UserRoom(userID), userID)
}
