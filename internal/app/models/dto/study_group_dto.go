package dto

import (
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// CreateStudyGroupRequest represents a new study group
type CreateStudyGroupRequest struct {
	Name        string     `json:"name" binding:"required,notblank,max=200"`
	Description string     `json:"description" binding:"max=1000"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Location    string     `json:"location" binding:"max=200"`
}

// StudyGroupResponse is a group with creator and members populated
type StudyGroupResponse struct {
	ID          string        `json:"id"`
	ClassID     string        `json:"class"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedBy   UserSummary   `json:"createdBy"`
	Members     []UserSummary `json:"members"`
	MemberCount int           `json:"memberCount"`
	ScheduledAt *time.Time    `json:"scheduledAt,omitempty"`
	Location    string        `json:"location"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// NewStudyGroupResponse projects g; lookup resolves user ids to summaries
func NewStudyGroupResponse(g *models.StudyGroup, lookup func(id string) UserSummary) StudyGroupResponse {
	members := make([]UserSummary, 0, len(g.Members))
	for _, id := range g.Members {
		members = append(members, lookup(id))
	}
	return StudyGroupResponse{
		ID:          g.ID,
		ClassID:     g.ClassID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   lookup(g.CreatedBy),
		Members:     members,
		MemberCount: len(members),
		ScheduledAt: g.ScheduledAt,
		Location:    g.Location,
		CreatedAt:   g.CreatedAt,
	}
}
