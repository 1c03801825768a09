package filestorage

import (
	"context"
	"errors"
	"mime/multipart"
)

// ErrInvalidPath is returned for URLs that do not point inside the storage root
var ErrInvalidPath = errors.New("invalid file path")

// Storage defines the file storage operations used by the services
type Storage interface {
	// Save stores the uploaded file under subdir with extension ext (".pdf")
	// and returns its public URL. The client's file name never reaches disk.
	Save(ctx context.Context, fileHeader *multipart.FileHeader, subdir, ext string) (string, error)

	// Delete removes the file behind url. Missing files are not an error.
	Delete(ctx context.Context, url string) error
}
