package models

import (
	"time"
)

// User defines a registered student
type User struct {
	ID        string    `json:"id" db:"id" bson:"_id"`
	Name      string    `json:"name" db:"name" bson:"name"`
	Email     string    `json:"email" db:"email" bson:"email"`  // Always lowercase
	Password  string    `json:"-" db:"password" bson:"password"` // bcrypt hash, never serialized
	Major     string    `json:"major" db:"major" bson:"major"`
	Bio       string    `json:"bio" db:"bio" bson:"bio"`
	Friends   []string  `json:"friends" db:"-" bson:"friends"` // One-directional friend list
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// Sanitized returns a copy of the user without the password hash
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	cp.Friends = append([]string(nil), u.Friends...)
	return &cp
}

// HasFriend reports whether id is in the user's friend list
func (u *User) HasFriend(id string) bool {
	return containsID(u.Friends, id)
}
