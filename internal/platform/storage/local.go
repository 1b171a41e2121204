package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// LocalFileStore keeps proof files on the local disk under a single directory.
type LocalFileStore struct {
	dir string
}

var _ FileStore = (*LocalFileStore)(nil)

// NewLocalFileStore ensures dir exists and returns a store writing into it.
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalFileStore{dir: dir}, nil
}

// SaveProof writes the uploaded file to <dir>/<transactionID><ext>. The stored
// name never derives from the client-supplied filename beyond its extension.
func (s *LocalFileStore) SaveProof(file *multipart.FileHeader, transactionID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	path := filepath.Join(s.dir, transactionID+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create proof file %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write proof file %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes the stored file, treating a missing file as success.
func (s *LocalFileStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove proof file %s: %w", path, err)
	}
	return nil
}
