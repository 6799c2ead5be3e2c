package storage

import (
	"context"
	"io"
)

// FileStorage file storage interface.
// Implementations can swap the backing service (local disk, OSS, S3, ...)
// without touching callers.
type FileStorage interface {
	// UploadFile stores the file content under folder and returns the
	// public access URL.
	UploadFile(ctx context.Context, file io.Reader, filename, folder string) (string, error)

	// DeleteFile removes the file identified by its access URL.
	DeleteFile(ctx context.Context, url string) error

	// GetFileURL maps a storage path to its access URL.
	GetFileURL(path string) string
}
