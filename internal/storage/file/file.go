// Package file хранит коллекцию постов в JSON-файле, перезаписываемом целиком.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/storage"
)

type FileStorage struct {
	path string
}

func New(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Load(ctx context.Context) ([]models.Post, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *FileStorage) Save(ctx context.Context, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	return atomicWriteFile(s.path, buf.Bytes(), 0o644)
}

func (s *FileStorage) Close() error {
	return nil
}

// atomicWriteFile пишет во временный файл рядом с целевым и переименовывает его,
// поэтому читатель видит либо старый, либо новый снимок целиком
func atomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	closed := false
	defer func() {
		if !closed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	if err := tmpFile.Chmod(perm); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	closed = true

	if err := os.Rename(tmpPath, filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
