package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/filestorage"
)

const notesSubdir = "notes"

// allowedNoteTypes are the sniffed MIME types accepted for note uploads
var allowedNoteTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"image/jpeg",
	"image/png",
}

// NoteService defines shared note operations
type NoteService interface {
	UploadNote(ctx context.Context, userID, classID string, file *multipart.FileHeader, req dto.UploadNoteRequest) (*dto.NoteResponse, error)
	ListNotes(ctx context.Context, userID, classID string) ([]dto.NoteResponse, error)
	// GetNote counts a view
	GetNote(ctx context.Context, noteID string) (*dto.NoteResponse, error)
	LikeNote(ctx context.Context, userID, noteID string) (*dto.LikeResponse, error)
	TrackDownload(ctx context.Context, noteID string) (*dto.DownloadResponse, error)
	DeleteNote(ctx context.Context, userID, noteID string) error
}

// noteServiceImpl implements NoteService
type noteServiceImpl struct {
	repos   *repositories.Repositories
	authz   *authz.AuthorizationService
	storage filestorage.Storage
	maxSize int64
	now     Clock
	logger  zerolog.Logger
}

// NewNoteService creates a new NoteService. Uploads larger than maxSize bytes are rejected.
func NewNoteService(
	repos *repositories.Repositories,
	authzService *authz.AuthorizationService,
	storage filestorage.Storage,
	maxSize int64,
	now Clock,
	logger zerolog.Logger,
) NoteService {
	return &noteServiceImpl{
		repos:   repos,
		authz:   authzService,
		storage: storage,
		maxSize: maxSize,
		now:     now,
		logger:  logger,
	}
}

// detectNoteType sniffs the upload content and checks it against the allow-list.
// It returns the MIME type and the extension the stored file must carry.
func detectNoteType(file *multipart.FileHeader) (string, string, error) {
	f, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("error opening upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", "", fmt.Errorf("error detecting file type: %w", err)
	}
	for _, allowed := range allowedNoteTypes {
		if mtype.Is(allowed) {
			ext := mtype.Extension()
			if known := mimetype.Lookup(allowed); known != nil && known.Extension() != "" {
				ext = known.Extension()
			}
			return allowed, ext, nil
		}
	}
	return "", "", apperrors.NewValidationError("Invalid file type. Only PDF, Word, PowerPoint and images are allowed")
}

// normalizeTags trims tags, splits comma-joined values and drops empties
func normalizeTags(raw []string) []string {
	tags := []string{}
	for _, r := range raw {
		for _, t := range strings.Split(r, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// UploadNote stores the file, then the record. The file is removed again if the record fails.
func (s *noteServiceImpl) UploadNote(ctx context.Context, userID, classID string, file *multipart.FileHeader, req dto.UploadNoteRequest) (*dto.NoteResponse, error) {
	if file == nil {
		return nil, apperrors.NewValidationError("Please upload a file")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("Note title is required")
	}
	if charLen(title) > 200 {
		return nil, apperrors.NewValidationError("Note title cannot exceed 200 characters")
	}
	if err := s.authz.RequireClassMember(ctx, classID, userID); err != nil {
		return nil, err
	}
	if file.Size > s.maxSize {
		return nil, apperrors.NewValidationError(fmt.Sprintf("File too large. Maximum size is %dMB", s.maxSize>>20))
	}
	fileType, ext, err := detectNoteType(file)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Save(ctx, file, notesSubdir, ext)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:          newID(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		FileURL:     url,
		FileName:    filepath.Base(file.Filename),
		FileSize:    file.Size,
		FileType:    fileType,
		ClassID:     classID,
		UploadedBy:  userID,
		Topic:       strings.TrimSpace(req.Topic),
		Tags:        normalizeTags(req.Tags),
		Likes:       []string{},
		IsApproved:  true,
		CreatedAt:   s.now(),
	}
	if err := s.repos.Notes.Create(ctx, note); err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.logger.Error().Err(delErr).Str("url", url).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Str("noteID", note.ID).Str("classID", classID).Int64("size", note.FileSize).Msg("Note uploaded")
	return s.respond(ctx, note)
}

func (s *noteServiceImpl) respond(ctx context.Context, note *models.Note) (*dto.NoteResponse, error) {
	lookup, err := loadUsers(ctx, s.repos.Users, note.UploadedBy)
	if err != nil {
		return nil, err
	}
	resp := dto.NewNoteResponse(note, lookup.get(note.UploadedBy))
	return &resp, nil
}

// ListNotes returns approved notes, newest first
func (s *noteServiceImpl) ListNotes(ctx context.Context, userID, classID string) ([]dto.NoteResponse, error) {
	if err := s.authz.RequireClassMember(ctx, classID, userID); err != nil {
		return nil, err
	}
	notes, err := s.repos.Notes.ListByClass(ctx, classID, true)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.UploadedBy)
	}
	lookup, err := loadUsers(ctx, s.repos.Users, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.NewNoteResponse(n, lookup.get(n.UploadedBy)))
	}
	return out, nil
}

func (s *noteServiceImpl) GetNote(ctx context.Context, noteID string) (*dto.NoteResponse, error) {
	if _, err := s.repos.Notes.IncrementViews(ctx, noteID); err != nil {
		return nil, err
	}
	note, err := s.repos.Notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, note)
}

func (s *noteServiceImpl) LikeNote(ctx context.Context, userID, noteID string) (*dto.LikeResponse, error) {
	liked, count, err := s.repos.Notes.ToggleLike(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: liked, LikeCount: count}, nil
}

func (s *noteServiceImpl) TrackDownload(ctx context.Context, noteID string) (*dto.DownloadResponse, error) {
	count, err := s.repos.Notes.IncrementDownloads(ctx, noteID)
	if err != nil {
		return nil, err
	}
	note, err := s.repos.Notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return &dto.DownloadResponse{DownloadCount: count, FileURL: note.FileURL}, nil
}

// DeleteNote is uploader-only and also removes the stored file
func (s *noteServiceImpl) DeleteNote(ctx context.Context, userID, noteID string) error {
	note, err := s.repos.Notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(note.UploadedBy, userID, authz.ErrNotNoteUploader); err != nil {
		return err
	}
	if err := s.repos.Notes.Delete(ctx, noteID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, note.FileURL); err != nil {
		// The record is gone; a leftover file is only logged
		s.logger.Error().Err(err).Str("noteID", noteID).Str("url", note.FileURL).Msg("Failed to delete note file")
	}
	return nil
}
