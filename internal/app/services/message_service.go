package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/websocket"
)

// MessageService defines direct messaging operations
type MessageService interface {
	SendMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (*dto.DirectMessageResponse, error)
	// GetMessages returns the thread with otherID, oldest first
	GetMessages(ctx context.Context, userID, otherID string) ([]dto.DirectMessageResponse, error)
	GetConversations(ctx context.Context, userID string) ([]dto.ConversationResponse, error)
	MarkRead(ctx context.Context, userID, messageID string) (*dto.DirectMessageResponse, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	DeleteMessage(ctx context.Context, userID, messageID string) error
}

// messageServiceImpl implements MessageService
type messageServiceImpl struct {
	repos    *repositories.Repositories
	notifier Notifier
	now      Clock
	logger   zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repositories.Repositories, notifier Notifier, now Clock, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{repos: repos, notifier: notifier, now: now, logger: logger}
}

// SendMessage stores the message and pushes it to the receiver's room
func (s *messageServiceImpl) SendMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (*dto.DirectMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("Message content is required")
	}
	if charLen(content) > models.MaxMessageLength {
		return nil, apperrors.NewValidationError("Message cannot exceed 2000 characters")
	}
	receiverID := strings.TrimSpace(req.ReceiverID)
	if receiverID == "" {
		return nil, apperrors.NewValidationError("Receiver is required")
	}
	if _, err := s.repos.Users.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:         newID(),
		SenderID:   userID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if err := s.repos.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	resp, err := s.respond(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(websocket.UserRoom(receiverID), websocket.EventMessageNew, resp)
	return resp, nil
}

func (s *messageServiceImpl) respond(ctx context.Context, msg *models.Message) (*dto.DirectMessageResponse, error) {
	lookup, err := loadUsers(ctx, s.repos.Users, msg.SenderID, msg.ReceiverID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDirectMessageResponse(msg, lookup.get)
	return &resp, nil
}

func (s *messageServiceImpl) GetMessages(ctx context.Context, userID, otherID string) ([]dto.DirectMessageResponse, error) {
	messages, err := s.repos.Messages.ListThread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	lookup, err := loadUsers(ctx, s.repos.Users, userID, otherID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.DirectMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.NewDirectMessageResponse(m, lookup.get))
	}
	return out, nil
}

// GetConversations returns one entry per counterpart, most recent first
func (s *messageServiceImpl) GetConversations(ctx context.Context, userID string) ([]dto.ConversationResponse, error) {
	messages, err := s.repos.Messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// messages are newest first, so the first one seen per counterpart is the last message
	var order []string
	last := make(map[string]*models.Message)
	unread := make(map[string]int)
	for _, m := range messages {
		other := m.Counterpart(userID)
		if _, ok := last[other]; !ok {
			last[other] = m
			order = append(order, other)
		}
		if m.ReceiverID == userID && !m.Read {
			unread[other]++
		}
	}

	lookup, err := loadUsers(ctx, s.repos.Users, append(order, userID)...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationResponse, 0, len(order))
	for _, other := range order {
		out = append(out, dto.ConversationResponse{
			User:        lookup.get(other),
			LastMessage: dto.NewDirectMessageResponse(last[other], lookup.get),
			UnreadCount: unread[other],
		})
	}
	return out, nil
}

// MarkRead is receiver-only and idempotent
func (s *messageServiceImpl) MarkRead(ctx context.Context, userID, messageID string) (*dto.DirectMessageResponse, error) {
	msg, err := s.repos.Messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(msg.ReceiverID, userID, authz.ErrNotMessageReceiver); err != nil {
		return nil, err
	}
	if !msg.Read {
		if err := s.repos.Messages.MarkRead(ctx, messageID, s.now()); err != nil {
			return nil, err
		}
		if msg, err = s.repos.Messages.GetByID(ctx, messageID); err != nil {
			return nil, err
		}
		s.notifier.Publish(websocket.UserRoom(msg.SenderID), websocket.EventMessageRead, map[string]string{"id": msg.ID})
	}
	return s.respond(ctx, msg)
}

func (s *messageServiceImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repos.Messages.CountUnread(ctx, userID)
}

// DeleteMessage is a sender-only hard delete
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, userID, messageID string) error {
	msg, err := s.repos.Messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(msg.SenderID, userID, authz.ErrNotMessageSender); err != nil {
		return err
	}
	if err := s.repos.Messages.Delete(ctx, messageID); err != nil {
		return err
	}
	s.notifier.Publish(websocket.UserRoom(msg.ReceiverID), websocket.EventMessageDelete, map[string]string{"id": msg.ID})
	return nil
}
