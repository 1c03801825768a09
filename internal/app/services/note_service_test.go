package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

func TestUploadNote(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	class := f.class(t, "CS1", alice.ID)

	_, err := f.notes.UploadNote(f.ctx, bob.ID, class.ID, upload(t, "a.pdf", pdfBytes), dto.UploadNoteRequest{Title: "Week 1"})
	assert.ErrorIs(t, err, apperrors.ErrNotClassMember)

	_, err = f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "a.pdf", pdfBytes), dto.UploadNoteRequest{Title: " "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.notes.UploadNote(f.ctx, alice.ID, class.ID, nil, dto.UploadNoteRequest{Title: "Week 1"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	note, err := f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "Week1.PDF", pdfBytes), dto.UploadNoteRequest{
		Title: "Week 1",
		Tags:  []string{"graphs, trees", " ", "dp"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", note.FileType)
	assert.Equal(t, "Week1.PDF", note.FileName)
	assert.Equal(t, []string{"graphs", "trees", "dp"}, note.Tags)
	assert.True(t, strings.HasPrefix(note.FileURL, "/uploads/notes/"))
	assert.True(t, strings.HasSuffix(note.FileURL, ".pdf"))
	assert.Equal(t, "alice", note.UploadedBy.Name)
	assert.True(t, note.IsApproved)

	path, err := f.storage.FullPath(note.FileURL)
	require.NoError(t, err)
	assert.FileExists(t, path)

	image, err := f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "board.png", pngBytes), dto.UploadNoteRequest{Title: "Board"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.FileType)

	notes, err := f.notes.ListNotes(f.ctx, alice.ID, class.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestUploadNoteRejectsContent(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	class := f.class(t, "CS1", alice.ID)

	// The extension lies; the content decides
	_, err := f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "notes.pdf", []byte("just some plain text")), dto.UploadNoteRequest{Title: "Fake"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	small := NewNoteService(f.repos, authz.NewAuthorizationService(f.repos.Classes), f.storage, 16, f.clock.Now, zerolog.Nop())
	_, err = small.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "a.pdf", pdfBytes), dto.UploadNoteRequest{Title: "Big"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	entries, err := os.ReadDir(f.storage.BasePath())
	require.NoError(t, err)
	for _, e := range entries {
		sub, err := os.ReadDir(f.storage.BasePath() + "/" + e.Name())
		require.NoError(t, err)
		assert.Empty(t, sub)
	}
}

func TestUploadNoteStoresUnderSniffedExtension(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	class := f.class(t, "CS1", alice.ID)

	polyglot := append([]byte("%PDF-1.4\n<html><script>alert(document.cookie)</script>\n"), pdfBytes...)
	note, err := f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "evil.html", polyglot), dto.UploadNoteRequest{Title: "Slides"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", note.FileType)
	assert.Equal(t, ".pdf", filepath.Ext(note.FileURL))
	assert.Equal(t, "evil.html", note.FileName)

	img, err := f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "diagram.html", pngBytes), dto.UploadNoteRequest{Title: "Diagram"})
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(img.FileURL))

	full, err := f.storage.FullPath(note.FileURL)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, polyglot, data)
}

type failingNotes struct {
	repositories.NoteRepository
}

func (failingNotes) Create(context.Context, *models.Note) error {
	return errors.New("insert failed")
}

func TestUploadNoteRemovesFileWhenRecordFails(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	class := f.class(t, "CS1", alice.ID)

	repos := *f.repos
	repos.Notes = failingNotes{f.repos.Notes}
	svc := NewNoteService(&repos, authz.NewAuthorizationService(repos.Classes), f.storage, 10<<20, f.clock.Now, zerolog.Nop())

	_, err := svc.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "a.pdf", pdfBytes), dto.UploadNoteRequest{Title: "Week 1"})
	require.Error(t, err)

	files, err := os.ReadDir(f.storage.BasePath() + "/" + notesSubdir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestNoteCountersAndLikes(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	class := f.class(t, "CS1", alice.ID)

	note, err := f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "a.pdf", pdfBytes), dto.UploadNoteRequest{Title: "Week 1"})
	require.NoError(t, err)

	viewed, err := f.notes.GetNote(f.ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, viewed.ViewCount)

	dl, err := f.notes.TrackDownload(f.ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, dl.DownloadCount)
	assert.Equal(t, note.FileURL, dl.FileURL)

	like, err := f.notes.LikeNote(f.ctx, bob.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LikeResponse{Liked: true, LikeCount: 1}, *like)
	like, err = f.notes.LikeNote(f.ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, like.LikeCount)
	like, err = f.notes.LikeNote(f.ctx, bob.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LikeResponse{Liked: false, LikeCount: 1}, *like)

	_, err = f.notes.LikeNote(f.ctx, bob.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestDeleteNoteIsUploaderOnly(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	class := f.class(t, "CS1", alice.ID, bob.ID)

	note, err := f.notes.UploadNote(f.ctx, alice.ID, class.ID, upload(t, "a.pdf", pdfBytes), dto.UploadNoteRequest{Title: "Week 1"})
	require.NoError(t, err)
	path, err := f.storage.FullPath(note.FileURL)
	require.NoError(t, err)

	assert.ErrorIs(t, f.notes.DeleteNote(f.ctx, bob.ID, note.ID), authz.ErrNotNoteUploader)
	assert.FileExists(t, path)

	require.NoError(t, f.notes.DeleteNote(f.ctx, alice.ID, note.ID))
	assert.NoFileExists(t, path)
	assert.ErrorIs(t, f.notes.DeleteNote(f.ctx, alice.ID, note.ID), apperrors.ErrNoteNotFound)
}
