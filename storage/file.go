package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps a single checkpoint as a JSON document at path.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = &FileStore{}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Init(_ context.Context) error {
	if s.path == "" {
		return errors.New("file path is required")
	}
	return nil
}

func (s *FileStore) SaveCheckpoint(_ context.Context, checkpoint Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := EncodeCheckpoint(checkpoint)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) GetCheckpoint(_ context.Context, name string) (Checkpoint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, err
	}
	checkpoint, err := DecodeCheckpoint(payload)
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("decode checkpoint %s: %w", s.path, err)
	}
	if name != "" && checkpoint.Name != name {
		return Checkpoint{}, false, nil
	}
	return checkpoint, true, nil
}

func (s *FileStore) Close() error {
	return nil
}
