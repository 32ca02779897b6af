package policies

import (
	"context"
	"math/rand"

	"github.com/zeu5/minebot/core"
	"github.com/zeu5/minebot/storage"
)

type MLPAgentConstructor struct {
	EnvID   string
	Options Options

	built int
}

var _ core.AgentConstructor = &MLPAgentConstructor{}

func NewMLPAgentConstructor(envID string, opts Options) *MLPAgentConstructor {
	return &MLPAgentConstructor{
		EnvID:   envID,
		Options: opts,
	}
}

// NewAgent draws fresh weights for the topology. Every agent built by the same
// constructor gets its own seed so a regrown network does not replay the
// previous initialisation.
func (c *MLPAgentConstructor) NewAgent(env core.Environment, topology core.Topology) (core.Agent, error) {
	spec := env.Spec()
	opts := c.Options.withDefaults()
	opts.Seed = c.Options.Seed + int64(c.built)
	c.built++

	net, err := NewNetwork(spec.ObservationSize, topology, spec.ActionCount, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}
	return newMLPAgent(env, c.EnvID, net, opts), nil
}

// LoadAgent restores a checkpoint and binds it to env. A checkpoint whose
// shapes do not fit the environment fails with storage.ErrShapeMismatch.
func (c *MLPAgentConstructor) LoadAgent(ctx context.Context, path string, env core.Environment) (core.Agent, error) {
	checkpoint, err := storage.LoadFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	spec := env.Spec()
	if err := checkpoint.CheckShape(spec.ObservationSize, spec.ActionCount); err != nil {
		return nil, err
	}
	net, err := NetworkFromCheckpoint(checkpoint)
	if err != nil {
		return nil, err
	}
	opts := c.Options
	opts.Seed = checkpoint.Seed
	envID := c.EnvID
	if envID == "" {
		envID = checkpoint.EnvID
	}
	return newMLPAgent(env, envID, net, opts), nil
}
