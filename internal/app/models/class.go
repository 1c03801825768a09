package models

import "time"

// Class is a course section that owns posts, notes, study sessions and study groups.
// Members is the single source of truth for membership; the count is always derived.
type Class struct {
	ID          string    `json:"id" db:"id" bson:"_id"`
	Name        string    `json:"name" db:"name" bson:"name"`
	Code        string    `json:"code" db:"code" bson:"code"`
	Description string    `json:"description" db:"description" bson:"description"`
	CreatedBy   string    `json:"createdBy,omitempty" db:"created_by" bson:"createdBy,omitempty"`
	Members     []string  `json:"members" db:"-" bson:"members"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
}

// MemberCount is derived from the member set
func (c *Class) MemberCount() int {
	return len(c.Members)
}

// HasMember reports whether userID belongs to the class
func (c *Class) HasMember(userID string) bool {
	return containsID(c.Members, userID)
}
