package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Default file store configuration constants.
const (
	defaultFileName = "state.json"
	dirPerm         = 0o755
	filePerm        = 0o600
)

// FileStore implements Store on a single JSON file. It is the durable scope:
// contents survive process restarts until explicitly cleared. The whole map
// is rewritten on every mutation via a temp-file rename, so concurrent
// writers resolve last-writer-wins.
type FileStore struct {
	mu       sync.Mutex
	path     string
	fileName string
	data     map[string]string
	loaded   bool
}

// NewFileStore creates a file store rooted at dir with configuration options.
// The backing file is created lazily on first write.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoStateDir, err)
		}
		dir = filepath.Join(base, "rozgar-portalkit")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStateDir, err)
	}

	s := &FileStore{
		path:     dir,
		fileName: defaultFileName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *FileStore) file() string {
	return filepath.Join(s.path, s.fileName)
}

// load reads the backing file into memory. Held under s.mu.
func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.data = make(map[string]string)
	raw, err := os.ReadFile(s.file())
	if errors.Is(err, os.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadState, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// A corrupt state file is discarded rather than wedging the client.
		s.data = make(map[string]string)
	}
	s.loaded = true
	return nil
}

// persist writes the in-memory map out atomically. Held under s.mu.
func (s *FileStore) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	tmp := s.file() + ".tmp"
	if err := os.WriteFile(tmp, raw, filePerm); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	if err := os.Rename(tmp, s.file()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	return nil
}

// Get returns the value for key.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", false, err
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key and persists immediately.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	s.data[key] = value
	return s.persist()
}

// Delete removes key and persists immediately.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	delete(s.data, key)
	return s.persist()
}

// Clear removes all keys and persists immediately.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	s.loaded = true
	return s.persist()
}
