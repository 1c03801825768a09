package dto

import (
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// UploadNoteRequest holds the multipart form fields of a note upload
type UploadNoteRequest struct {
	Title       string   `form:"title" binding:"required,notblank,max=200"`
	Description string   `form:"description" binding:"max=1000"`
	Topic       string   `form:"topic" binding:"max=200"`
	Tags        []string `form:"tags" binding:"max=20,dive,max=50"`
}

// NoteResponse is a note with its uploader populated
type NoteResponse struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	FileURL       string      `json:"fileUrl"`
	FileName      string      `json:"fileName"`
	FileSize      int64       `json:"fileSize"`
	FileType      string      `json:"fileType"`
	ClassID       string      `json:"classId"`
	UploadedBy    UserSummary `json:"uploadedBy"`
	Topic         string      `json:"topic"`
	Tags          []string    `json:"tags"`
	DownloadCount int         `json:"downloadCount"`
	ViewCount     int         `json:"viewCount"`
	Likes         []string    `json:"likes"`
	LikeCount     int         `json:"likeCount"`
	IsApproved    bool        `json:"isApproved"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// LikeResponse reports the state after a like toggle
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// DownloadResponse reports the download counter and where to fetch the file
type DownloadResponse struct {
	DownloadCount int    `json:"downloadCount"`
	FileURL       string `json:"fileUrl"`
}

// NewNoteResponse projects n with its uploader
func NewNoteResponse(n *models.Note, uploader UserSummary) NoteResponse {
	tags, likes := n.Tags, n.Likes
	if tags == nil {
		tags = []string{}
	}
	if likes == nil {
		likes = []string{}
	}
	return NoteResponse{
		ID:            n.ID,
		Title:         n.Title,
		Description:   n.Description,
		FileURL:       n.FileURL,
		FileName:      n.FileName,
		FileSize:      n.FileSize,
		FileType:      n.FileType,
		ClassID:       n.ClassID,
		UploadedBy:    uploader,
		Topic:         n.Topic,
		Tags:          tags,
		DownloadCount: n.DownloadCount,
		ViewCount:     n.ViewCount,
		Likes:         likes,
		LikeCount:     len(likes),
		IsApproved:    n.IsApproved,
		CreatedAt:     n.CreatedAt,
	}
}
