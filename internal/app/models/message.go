package models

import "time"

// MaxMessageLength is the maximum direct message length in characters
const MaxMessageLength = 2000

// Message is a direct message between two users. Content is immutable after send.
type Message struct {
	ID         string     `json:"id" db:"id" bson:"_id"`
	SenderID   string     `json:"sender" db:"sender_id" bson:"sender"`
	ReceiverID string     `json:"receiver" db:"receiver_id" bson:"receiver"`
	Content    string     `json:"content" db:"content" bson:"content"`
	Read       bool       `json:"read" db:"read" bson:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty" db:"read_at" bson:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
}

// Counterpart returns the other participant from userID's point of view
func (m *Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
