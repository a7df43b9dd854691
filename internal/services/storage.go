package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage persists uploaded files and returns their public URL.
type FileStorage interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// LocalFileStorage writes uploads below dir and serves them from baseURL.
type LocalFileStorage struct {
	dir     string
	baseURL string
}

// NewLocalFileStorage creates a new LocalFileStorage.
func NewLocalFileStorage(dir, baseURL string) *LocalFileStorage {
	return &LocalFileStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalFileStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return s.baseURL + "/uploads/" + name, nil
}
