package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiskStore writes image payloads under the media directory, keyed by
// upload date so the tree stays browsable:
// feedback_images/2025/09/01/<uuid>.jpg. The returned path is relative to
// the media root and is what gets persisted on the image row.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(_ context.Context, filename string, payload io.Reader) (string, error) {
	now := time.Now()
	dir := filepath.Join("feedback_images", now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + sanitizeExt(filename)
	relPath := filepath.ToSlash(filepath.Join(dir, name))

	file, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(file, payload); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}
	return relPath, nil
}

func (s *DiskStore) Remove(_ context.Context, path string) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	// Refuse to step outside the media root whatever the stored path says.
	if rel, err := filepath.Rel(s.root, full); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q escapes media root", path)
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		return ""
	}
	return ext
}
