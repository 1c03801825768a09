package models

import "time"

// PostType categorizes class feed posts
type PostType string

const (
	PostTypeChat         PostType = "chat"
	PostTypeQuestion     PostType = "question"
	PostTypeAnnouncement PostType = "announcement"
)

// DeletedPostContent replaces the content of soft-deleted posts
const DeletedPostContent = "This message was deleted"

// MaxPostLength is the maximum post content length in characters
const MaxPostLength = 1000

// Valid reports whether t is a known post type
func (t PostType) Valid() bool {
	switch t {
	case PostTypeChat, PostTypeQuestion, PostTypeAnnouncement:
		return true
	}
	return false
}

// Post is a message in a class chat feed
type Post struct {
	ID        string     `json:"id" db:"id" bson:"_id"`
	ClassID   string     `json:"classId" db:"class_id" bson:"classId"`
	AuthorID  string     `json:"author" db:"author_id" bson:"author"`
	Content   string     `json:"content" db:"content" bson:"content"`
	Type      PostType   `json:"type" db:"type" bson:"type"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty" db:"edited_at" bson:"editedAt,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at" bson:"deletedAt,omitempty"`
}

// IsDeleted reports whether the post was soft-deleted
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}
