package storage

import (
	"context"
	"errors"
)

var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Store persists named agent checkpoints.
type Store interface {
	Init(ctx context.Context) error
	SaveCheckpoint(ctx context.Context, checkpoint Checkpoint) error
	GetCheckpoint(ctx context.Context, name string) (Checkpoint, bool, error)
	Close() error
}
