package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/semmidev/fileup/internal/domain"
)

// LocalStorage publishes into a directory on this machine, typically a
// web server's document root.
type LocalStorage struct {
	basePath string
}

func NewLocal(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, &domain.TransferError{Op: "mkdir", Name: basePath, Err: fmt.Errorf("failed to create upload directory: %w", err)}
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (l *LocalStorage) Upload(ctx context.Context, localPath string, remoteName string) error {
	destPath := filepath.Join(l.basePath, remoteName)

	source, err := os.Open(localPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		source = nil
	case err != nil:
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: fmt.Errorf("failed to open source: %w", err)}
	default:
		defer source.Close()
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: fmt.Errorf("failed to create dest: %w", err)}
	}
	defer dest.Close()

	if source == nil {
		return nil
	}

	if _, err := io.Copy(dest, source); err != nil {
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: fmt.Errorf("failed to copy: %w", err)}
	}

	return nil
}

func (l *LocalStorage) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, &domain.TransferError{Op: "list", Err: fmt.Errorf("failed to read directory: %w", err)}
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

func (l *LocalStorage) Delete(ctx context.Context, remoteName string) error {
	filePath := filepath.Join(l.basePath, remoteName)
	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NotFound("delete", remoteName, err)
		}
		return &domain.TransferError{Op: "delete", Name: remoteName, Err: fmt.Errorf("failed to delete file: %w", err)}
	}
	return nil
}

func (l *LocalStorage) Close() error {
	return nil
}

func (l *LocalStorage) GetPath(filename string) string {
	return filepath.Join(l.basePath, filename)
}
