package models

import "time"

// Note is a shared study file attached to a class
type Note struct {
	ID            string    `json:"id" db:"id" bson:"_id"`
	Title         string    `json:"title" db:"title" bson:"title"`
	Description   string    `json:"description" db:"description" bson:"description"`
	FileURL       string    `json:"fileUrl" db:"file_url" bson:"fileUrl"`
	FileName      string    `json:"fileName" db:"file_name" bson:"fileName"`
	FileSize      int64     `json:"fileSize" db:"file_size" bson:"fileSize"`
	FileType      string    `json:"fileType" db:"file_type" bson:"fileType"`
	ClassID       string    `json:"classId" db:"class_id" bson:"classId"`
	UploadedBy    string    `json:"uploadedBy" db:"uploaded_by" bson:"uploadedBy"`
	Topic         string    `json:"topic" db:"topic" bson:"topic"`
	Tags          []string  `json:"tags" db:"tags" bson:"tags"`
	DownloadCount int       `json:"downloadCount" db:"download_count" bson:"downloadCount"`
	ViewCount     int       `json:"viewCount" db:"view_count" bson:"viewCount"`
	Likes         []string  `json:"likes" db:"-" bson:"likes"`
	IsApproved    bool      `json:"isApproved" db:"is_approved" bson:"isApproved"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
}

// LikedBy reports whether userID has liked the note
func (n *Note) LikedBy(userID string) bool {
	return containsID(n.Likes, userID)
}
