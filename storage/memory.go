package storage

import (
	"context"
	"errors"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	checkpoints map[string]Checkpoint
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.checkpoints = make(map[string]Checkpoint)
	return nil
}

func (s *MemoryStore) SaveCheckpoint(_ context.Context, checkpoint Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.checkpoints[checkpoint.Name] = cloneCheckpoint(checkpoint)
	return nil
}

func (s *MemoryStore) GetCheckpoint(_ context.Context, name string) (Checkpoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkpoint, ok := s.checkpoints[name]
	if !ok {
		return Checkpoint{}, false, nil
	}
	return cloneCheckpoint(checkpoint), true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func cloneCheckpoint(c Checkpoint) Checkpoint {
	out := c
	out.Topology = append([]int(nil), c.Topology...)
	out.Layers = make([]Layer, len(c.Layers))
	for i, l := range c.Layers {
		out.Layers[i] = Layer{
			Inputs:  l.Inputs,
			Outputs: l.Outputs,
			Weights: append([]float64(nil), l.Weights...),
			Bias:    append([]float64(nil), l.Bias...),
		}
	}
	return out
}
