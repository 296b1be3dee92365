package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/aerial/internal/shared"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the cache in a TOML file, one table per integration:
//
//	[spotify]
//	access_token = "BQD..."
//	token_type = "Bearer"
//	expires_in = 3600
//	issued_at = 2026-10-16T12:00:00Z
//	refresh_token = "AQC..."
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore creates a store for path. A nil logger discards output.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the cache file. A missing file is logged and yields an empty cache.
func (s *FileStore) Load() (*Cache, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("token cache not found, starting empty", "path", s.path)
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCacheRead, err)
	}

	var records map[string]Record
	if err := toml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCacheRead, s.path, err)
	}
	return FromRecords(records), nil
}

// Save replaces the cache file with the contents of c, creating parent directories as needed.
func (s *FileStore) Save(c *Cache) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.toml")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(c.Records()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}

	s.logger.Debug("token cache saved", "path", s.path, "entries", len(c.tokens))
	return nil
}
