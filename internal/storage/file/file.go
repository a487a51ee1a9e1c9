package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dtroode/userkeeper-server/internal/logger"
	"github.com/dtroode/userkeeper-server/internal/model"
	"github.com/dtroode/userkeeper-server/internal/storage/codec"
)

// DefaultPath is the backing file used when no path is configured.
const DefaultPath = "users.txt"

// defaultMode is applied when the backing file does not exist yet.
const defaultMode fs.FileMode = 0o644

var _ model.Snapshotter = (*Storage)(nil)

// Storage keeps the user collection in a single JSON file.
type Storage struct {
	path   string
	logger *logger.Logger
}

// New creates a file Storage for path, falling back to DefaultPath.
func New(path string, logger *logger.Logger) *Storage {
	if path == "" {
		path = DefaultPath
	}
	return &Storage{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path.
func (s *Storage) Path() string {
	return s.path
}

// Load reads the backing file. A missing or malformed file yields an empty
// collection: the service starts over rather than refusing to boot.
func (s *Storage) Load(_ context.Context) ([]model.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("File storage: backing file not found, starting empty", "path", s.path)
		return []model.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	users, fallback := codec.DecodeOrEmpty(data)
	if fallback {
		s.logger.Warn("File storage: backing file is malformed, starting empty", "path", s.path)
	}
	return users, nil
}

// Save rewrites the backing file with users. The content is written to a
// temporary file in the same directory and renamed over the target, keeping
// the permissions of the file it replaces.
func (s *Storage) Save(_ context.Context, users []model.User) error {
	data, err := codec.Encode(users)
	if err != nil {
		return err
	}

	mode := defaultMode
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}
