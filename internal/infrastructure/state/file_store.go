package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the persisted fixture date in a single text file.
// Writes go through a temp file and rename so a crash mid-write cannot
// leave a torn value behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read state file %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FileStore) Write(_ context.Context, value string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state file %s: %w", s.path, err)
	}
	return nil
}
