package filestorage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/uploads/", zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	url, err := ls.Save(ctx, fileHeader(t, "Lecture.html", []byte("%PDF-1.4 test")), "notes", ".pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/notes/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	full, err := ls.FullPath(url)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(filepath.Dir(full)))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))

	require.NoError(t, ls.Delete(ctx, url))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is fine
	assert.NoError(t, ls.Delete(ctx, url))
}

func TestLocalStorageRejectsPathsOutsideRoot(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "uploads", zerolog.Nop())
	require.NoError(t, err)

	for _, url := range []string{
		"",
		"/uploads/",
		"/uploads/../etc/passwd",
		"/uploads/notes/../../secret",
		"/other/file.pdf",
	} {
		_, err := ls.FullPath(url)
		assert.ErrorIs(t, err, ErrInvalidPath, url)
		assert.ErrorIs(t, ls.Delete(context.Background(), url), ErrInvalidPath, url)
	}
}

func TestLocalStorageIgnoresClientFileName(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads", zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		ext     string
		wantExt string
	}{
		{"evil.html", ".png", ".png"},
		{"notes.PDF", "PDF", ".pdf"},
		{"x.svg", "", ""},
		{"y.pdf", ".p/../df", ""},
		{"z.pdf", ".html;.pdf", ""},
	}
	for _, tt := range tests {
		url, err := ls.Save(ctx, fileHeader(t, tt.name, []byte("data")), "notes", tt.ext)
		require.NoError(t, err)
		assert.Equal(t, tt.wantExt, filepath.Ext(url), tt.name)
		assert.NotContains(t, url, tt.name)
	}
}
