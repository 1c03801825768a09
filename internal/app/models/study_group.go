package models

import "time"

// StudyGroup is a set of students in a class meeting to study together
type StudyGroup struct {
	ID          string     `json:"id" db:"id" bson:"_id"`
	ClassID     string     `json:"class" db:"class_id" bson:"class"`
	Name        string     `json:"name" db:"name" bson:"name"`
	Description string     `json:"description" db:"description" bson:"description"`
	CreatedBy   string     `json:"createdBy" db:"created_by" bson:"createdBy"`
	Members     []string   `json:"members" db:"-" bson:"members"` // Creator is always first
	ScheduledAt *time.Time `json:"scheduledAt,omitempty" db:"scheduled_at" bson:"scheduledAt,omitempty"`
	Location    string     `json:"location" db:"location" bson:"location"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
}

// HasMember reports whether userID belongs to the group
func (g *StudyGroup) HasMember(userID string) bool {
	return containsID(g.Members, userID)
}
