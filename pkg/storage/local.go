package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iceymoss/sentinelpost/pkg/logger"

	"go.uber.org/zap"
)

// LocalStorage stores files on the local filesystem.
type LocalStorage struct {
	basePath string // storage root, e.g. ./data/images
	baseURL  string // access URL prefix, e.g. http://localhost:8080/static
}

// NewLocalStorage creates a local file storage instance.
func NewLocalStorage(basePath, baseURL string) *LocalStorage {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		logger.Error("create storage root failed", zap.String("path", basePath), zap.Error(err))
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}
}

var _ FileStorage = (*LocalStorage)(nil)

// UploadFile writes the content under basePath/folder with a
// timestamp-prefixed name and returns the access URL.
func (s *LocalStorage) UploadFile(ctx context.Context, file io.Reader, filename, folder string) (string, error) {
	ext := filepath.Ext(filename)
	name := filepath.Base(filename)
	name = name[:len(name)-len(ext)]

	timestamp := time.Now().Unix()
	newFilename := fmt.Sprintf("%d_%s%s", timestamp, name, ext)

	folderPath := filepath.Join(s.basePath, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	filePath := filepath.Join(folderPath, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath) // don't leave a partial file behind
		return "", fmt.Errorf("write file: %w", err)
	}

	relativePath := filepath.Join(folder, newFilename)
	return s.GetFileURL(relativePath), nil
}

// DeleteFile removes the file behind the access URL. A missing file counts
// as deleted.
func (s *LocalStorage) DeleteFile(ctx context.Context, url string) error {
	relativePath := url
	if s.baseURL != "" && strings.HasPrefix(url, s.baseURL) {
		relativePath = strings.TrimPrefix(strings.TrimPrefix(url, s.baseURL), "/")
	}

	filePath := filepath.Join(s.basePath, relativePath)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(filePath)
}

// GetFileURL maps a relative storage path to its access URL.
func (s *LocalStorage) GetFileURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.baseURL, "/"), filepath.ToSlash(path))
}

// BasePath exposes the storage root so the HTTP layer can serve it.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
