package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/middleware"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

// multipartOverhead is allowed on top of the file size limit for form fields and boundaries
const multipartOverhead = 1 << 20

// NoteController handles shared notes
type NoteController struct {
	noteService services.NoteService
	maxSize     int64
}

// NewNoteController creates a new NoteController. maxSize caps the upload body.
func NewNoteController(noteService services.NoteService, maxSize int64) *NoteController {
	return &NoteController{noteService: noteService, maxSize: maxSize}
}

// ListNotes godoc
// @Summary List class notes
// @Description Approved notes, newest first
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{id}/notes [get]
func (nc *NoteController) ListNotes(c *gin.Context) {
	notes, err := nc.noteService.ListNotes(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes, "count": len(notes)})
}

// UploadNote godoc
// @Summary Upload a note
// @Description PDF, Word, PowerPoint, JPEG or PNG up to the configured size
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param file formData file true "Note file"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param topic formData string false "Topic"
// @Param tags formData []string false "Tags"
// @Success 201 {object} map[string]dto.NoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{id}/notes [post]
func (nc *NoteController) UploadNote(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, nc.maxSize+multipartOverhead)

	var req dto.UploadNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(c, err)
			return
		}
		middleware.HandleBindError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			middleware.HandleAPIError(c, apperrors.NewValidationError("Please upload a file"))
			return
		}
		middleware.HandleAPIError(c, err)
		return
	}

	note, err := nc.noteService.UploadNote(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), file, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// GetNote godoc
// @Summary Get a note
// @Description Counts a view
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note ID"
// @Success 200 {object} map[string]dto.NoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{noteId} [get]
func (nc *NoteController) GetNote(c *gin.Context) {
	note, err := nc.noteService.GetNote(c.Request.Context(), c.Param("noteId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{noteId} [delete]
func (nc *NoteController) DeleteNote(c *gin.Context) {
	if err := nc.noteService.DeleteNote(c.Request.Context(), middleware.GetUserID(c), c.Param("noteId")); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Note deleted"})
}

// LikeNote godoc
// @Summary Toggle a like on a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note ID"
// @Success 200 {object} dto.LikeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{noteId}/like [post]
func (nc *NoteController) LikeNote(c *gin.Context) {
	resp, err := nc.noteService.LikeNote(c.Request.Context(), middleware.GetUserID(c), c.Param("noteId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TrackDownload godoc
// @Summary Count a download
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param noteId path string true "Note ID"
// @Success 200 {object} dto.DownloadResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{noteId}/download [post]
func (nc *NoteController) TrackDownload(c *gin.Context) {
	resp, err := nc.noteService.TrackDownload(c.Request.Context(), c.Param("noteId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
