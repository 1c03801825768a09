package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// FlexibleInt decodes from a JSON number or a numeric string. Fractions are truncated
// and values outside the int32 range are rejected.
type FlexibleInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return fmt.Errorf("integer value %q out of range", raw)
		}
		*f = FlexibleInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		return fmt.Errorf("invalid integer value %q", raw)
	}
	*f = FlexibleInt(math.Trunc(v))
	return nil
}

// CreateStudySessionRequest represents a logged study session
type CreateStudySessionRequest struct {
	Type           models.SessionType    `json:"type" binding:"omitempty,oneof=timer manual-log group-session"`
	Duration       FlexibleInt           `json:"duration" binding:"required,min=1"`
	Topic          string                `json:"topic" binding:"required,notblank,max=200"`
	Subtopics      []string              `json:"subtopics" binding:"omitempty,dive,max=100"`
	WhatILearned   string                `json:"whatILearned" binding:"required,notblank,max=1000"`
	Difficulty     models.Difficulty     `json:"difficulty" binding:"omitempty,oneof=easy medium challenging"`
	StudyTechnique models.StudyTechnique `json:"studyTechnique" binding:"omitempty,oneof=pomodoro active-recall spaced-repetition practice-problems flashcards reading group-discussion other"`
	Location       string                `json:"location" binding:"max=200"`
}

// AddCommentRequest represents a comment on a study session
type AddCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=500"`
}

// ListStudySessionsQuery holds the list filters
type ListStudySessionsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// SessionCommentResponse is a comment with its author populated
type SessionCommentResponse struct {
	ID        string      `json:"id"`
	User      UserSummary `json:"user"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

// StudySessionResponse is a session with its owner and commenters populated
type StudySessionResponse struct {
	ID             string                   `json:"id"`
	ClassID        string                   `json:"classId"`
	User           UserSummary              `json:"user"`
	Type           models.SessionType       `json:"type"`
	Duration       int                      `json:"duration"`
	Topic          string                   `json:"topic"`
	Subtopics      []string                 `json:"subtopics"`
	WhatILearned   string                   `json:"whatILearned"`
	Difficulty     models.Difficulty        `json:"difficulty"`
	StudyTechnique models.StudyTechnique    `json:"studyTechnique,omitempty"`
	Location       string                   `json:"location"`
	Likes          []string                 `json:"likes"`
	LikeCount      int                      `json:"likeCount"`
	Comments       []SessionCommentResponse `json:"comments"`
	CreatedAt      time.Time                `json:"createdAt"`
}

// StudyStatsResponse summarizes a user's sessions in one class
type StudyStatsResponse struct {
	TotalSessions  int     `json:"totalSessions"`
	TotalMinutes   int     `json:"totalMinutes"`
	TotalHours     float64 `json:"totalHours"`
	AverageMinutes float64 `json:"averageMinutes"`
	CurrentStreak  int     `json:"currentStreak"`
}

// NewStudySessionResponse projects s; lookup resolves user ids to summaries
func NewStudySessionResponse(s *models.StudySession, lookup func(id string) UserSummary) StudySessionResponse {
	subtopics, likes := s.Subtopics, s.Likes
	if subtopics == nil {
		subtopics = []string{}
	}
	if likes == nil {
		likes = []string{}
	}
	comments := make([]SessionCommentResponse, 0, len(s.Comments))
	for _, c := range s.Comments {
		comments = append(comments, SessionCommentResponse{
			ID:        c.ID,
			User:      lookup(c.UserID),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return StudySessionResponse{
		ID:             s.ID,
		ClassID:        s.ClassID,
		User:           lookup(s.UserID),
		Type:           s.Type,
		Duration:       s.Duration,
		Topic:          s.Topic,
		Subtopics:      subtopics,
		WhatILearned:   s.WhatILearned,
		Difficulty:     s.Difficulty,
		StudyTechnique: s.StudyTechnique,
		Location:       s.Location,
		Likes:          likes,
		LikeCount:      len(likes),
		Comments:       comments,
		CreatedAt:      s.CreatedAt,
	}
}
