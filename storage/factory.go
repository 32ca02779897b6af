package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
	KindFile   = "file"
)

func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return NewSQLiteStore(path), nil
	case KindFile:
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// Location maps a model path onto a backend, a file location and a checkpoint
// name. "*.json" paths use the file backend; anything else is a SQLite database,
// with ".db" appended when the path has no extension.
type Location struct {
	Kind string
	Path string
	Name string
}

func ResolveLocation(modelPath string) Location {
	ext := filepath.Ext(modelPath)
	name := strings.TrimSuffix(filepath.Base(modelPath), ext)
	switch strings.ToLower(ext) {
	case ".json":
		return Location{Kind: KindFile, Path: modelPath, Name: name}
	case "":
		return Location{Kind: KindSQLite, Path: modelPath + ".db", Name: name}
	default:
		return Location{Kind: KindSQLite, Path: modelPath, Name: name}
	}
}

// SaveToPath writes the checkpoint to the store resolved from modelPath.
func SaveToPath(ctx context.Context, modelPath string, checkpoint Checkpoint) error {
	loc := ResolveLocation(modelPath)
	if err := os.MkdirAll(filepath.Dir(loc.Path), 0755); err != nil {
		return err
	}
	store, err := NewStore(loc.Kind, loc.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("open checkpoint store %s: %w", loc.Path, err)
	}
	checkpoint.Name = loc.Name
	return store.SaveCheckpoint(ctx, checkpoint)
}

// LoadFromPath reads the checkpoint stored at modelPath.
func LoadFromPath(ctx context.Context, modelPath string) (Checkpoint, error) {
	loc := ResolveLocation(modelPath)
	if _, err := os.Stat(loc.Path); errors.Is(err, os.ErrNotExist) {
		return Checkpoint{}, fmt.Errorf("%w: %s", ErrCheckpointNotFound, loc.Path)
	}
	store, err := NewStore(loc.Kind, loc.Path)
	if err != nil {
		return Checkpoint{}, err
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		return Checkpoint{}, fmt.Errorf("open checkpoint store %s: %w", loc.Path, err)
	}
	checkpoint, ok, err := store.GetCheckpoint(ctx, loc.Name)
	if err != nil {
		return Checkpoint{}, err
	}
	if !ok {
		return Checkpoint{}, fmt.Errorf("%w: %s in %s", ErrCheckpointNotFound, loc.Name, loc.Path)
	}
	return checkpoint, nil
}
