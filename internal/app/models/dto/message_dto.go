package dto

import (
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// SendMessageRequest represents a direct message
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required,notblank"`
	Content    string `json:"content" binding:"required,notblank,max=2000"`
}

// DirectMessageResponse is a direct message with both participants populated
type DirectMessageResponse struct {
	ID        string      `json:"id"`
	Sender    UserSummary `json:"sender"`
	Receiver  UserSummary `json:"receiver"`
	Content   string      `json:"content"`
	Read      bool        `json:"read"`
	ReadAt    *time.Time  `json:"readAt,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ConversationResponse summarizes the thread with one counterpart
type ConversationResponse struct {
	User        UserSummary           `json:"user"`
	LastMessage DirectMessageResponse `json:"lastMessage"`
	UnreadCount int                   `json:"unreadCount"`
}

// UnreadCountResponse reports unread direct messages
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// NewDirectMessageResponse projects m; lookup resolves user ids to summaries
func NewDirectMessageResponse(m *models.Message, lookup func(id string) UserSummary) DirectMessageResponse {
	return DirectMessageResponse{
		ID:        m.ID,
		Sender:    lookup(m.SenderID),
		Receiver:  lookup(m.ReceiverID),
		Content:   m.Content,
		Read:      m.Read,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}
