package storage

import (
	"errors"
	"fmt"
	"time"
)

var ErrShapeMismatch = errors.New("checkpoint shape mismatch")

// VersionedRecord captures schema and codec evolution for persisted checkpoints.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Layer is one dense layer, weights stored row-major as Outputs x Inputs.
type Layer struct {
	Inputs  int       `json:"inputs"`
	Outputs int       `json:"outputs"`
	Weights []float64 `json:"weights"`
	Bias    []float64 `json:"bias"`
}

type Checkpoint struct {
	VersionedRecord
	Name            string    `json:"name"`
	EnvID           string    `json:"env_id"`
	ObservationSize int       `json:"observation_size"`
	ActionCount     int       `json:"action_count"`
	Topology        []int     `json:"topology"`
	Layers          []Layer   `json:"layers"`
	Seed            int64     `json:"seed"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewCheckpoint(name string) Checkpoint {
	return Checkpoint{
		VersionedRecord: VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		Name:            name,
		CreatedAt:       time.Now().UTC(),
	}
}

// CheckShape verifies that the layers chain from observationSize through the
// topology to actionCount. Every size must be positive.
func (c Checkpoint) CheckShape(observationSize, actionCount int) error {
	if observationSize <= 0 || actionCount <= 0 {
		return fmt.Errorf("%w: %d observation features and %d actions", ErrShapeMismatch, observationSize, actionCount)
	}
	for i, w := range c.Topology {
		if w <= 0 {
			return fmt.Errorf("%w: hidden layer %d has width %d", ErrShapeMismatch, i, w)
		}
	}
	if c.ObservationSize != observationSize {
		return fmt.Errorf("%w: checkpoint expects %d observation features, environment has %d", ErrShapeMismatch, c.ObservationSize, observationSize)
	}
	if c.ActionCount != actionCount {
		return fmt.Errorf("%w: checkpoint expects %d actions, environment has %d", ErrShapeMismatch, c.ActionCount, actionCount)
	}
	if len(c.Layers) != len(c.Topology)+1 {
		return fmt.Errorf("%w: %d layers for %d hidden widths", ErrShapeMismatch, len(c.Layers), len(c.Topology))
	}
	in := observationSize
	for i, layer := range c.Layers {
		out := actionCount
		if i < len(c.Topology) {
			out = c.Topology[i]
		}
		if layer.Inputs != in || layer.Outputs != out {
			return fmt.Errorf("%w: layer %d is %dx%d, want %dx%d", ErrShapeMismatch, i, layer.Outputs, layer.Inputs, out, in)
		}
		if len(layer.Weights) != in*out || len(layer.Bias) != out {
			return fmt.Errorf("%w: layer %d has %d weights and %d biases", ErrShapeMismatch, i, len(layer.Weights), len(layer.Bias))
		}
		in = out
	}
	return nil
}
