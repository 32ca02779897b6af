package core

import (
	"context"
	"errors"
	"fmt"
)

const (
	DefaultLayerWidth = 64
	DefaultLayers     = 2
)

var ErrInvalidTopology = errors.New("invalid topology")

// Topology lists hidden-layer widths from input side to output side.
type Topology []int

func DefaultTopology() Topology {
	t := make(Topology, DefaultLayers)
	for i := range t {
		t[i] = DefaultLayerWidth
	}
	return t
}

func (t Topology) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no hidden layers", ErrInvalidTopology)
	}
	for i, w := range t {
		if w <= 0 {
			return fmt.Errorf("%w: layer %d has width %d", ErrInvalidTopology, i, w)
		}
	}
	return nil
}

// Grow returns a copy of the topology with one more hidden layer of the given width.
// The receiver is left untouched.
func (t Topology) Grow(width int) Topology {
	out := make(Topology, len(t), len(t)+1)
	copy(out, t)
	return append(out, width)
}

func (t Topology) Copy() Topology {
	out := make(Topology, len(t))
	copy(out, t)
	return out
}

type Agent interface {
	// Learn trains the agent for the given number of environment steps.
	Learn(ctx context.Context, steps int) error
	Predict(Observation) (Action, error)
	Topology() Topology
	Save(ctx context.Context, path string) error
}

// AgentConstructor builds agents bound to an environment.
// Agents built from a topology always start from fresh weights.
type AgentConstructor interface {
	NewAgent(env Environment, topology Topology) (Agent, error)
	LoadAgent(ctx context.Context, path string, env Environment) (Agent, error)
}
