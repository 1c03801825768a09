package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath  string // The root directory where files will be stored
	urlPrefix string // Public URL prefix the root directory is served under
	logger    zerolog.Logger
}

// NewLocalStorage creates the base directory if needed. Files saved under
// basePath are addressed as urlPrefix/<subdir>/<name>.
func NewLocalStorage(basePath, urlPrefix string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath:  basePath,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

// BasePath returns the directory files are stored in
func (ls *LocalStorage) BasePath() string { return ls.basePath }

// Save copies the upload to a uniquely named file under subdir
func (ls *LocalStorage) Save(_ context.Context, fileHeader *multipart.FileHeader, subdir, ext string) (string, error) {
	if fileHeader == nil {
		return "", errors.New("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		ls.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subdir = strings.Trim(path.Clean("/"+subdir), "/")
	dir := filepath.Join(ls.basePath, filepath.FromSlash(subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		ls.logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	// Static serving derives Content-Type from this extension
	name := uuid.New().String() + cleanExt(ext)
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}

	url := ls.urlPrefix
	if subdir != "" {
		url += "/" + subdir
	}
	url += "/" + name

	ls.logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// Delete removes the file behind url
func (ls *LocalStorage) Delete(_ context.Context, url string) error {
	fullPath, err := ls.FullPath(url)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ls.logger.Warn().Str("path", fullPath).Msg("File to delete does not exist")
			return nil
		}
		ls.logger.Error().Err(err).Str("path", fullPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.logger.Info().Str("path", fullPath).Msg("File deleted successfully")
	return nil
}

// FullPath maps a URL returned by Save back to its filesystem path
func (ls *LocalStorage) FullPath(url string) (string, error) {
	rel, ok := strings.CutPrefix(url, ls.urlPrefix+"/")
	if !ok || rel == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, url)
	}

	cleaned := path.Clean("/" + rel)
	if cleaned == "/" || cleaned != "/"+rel {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, url)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

// cleanExt keeps a single ".alnum" extension and drops anything else
func cleanExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + ext
}
