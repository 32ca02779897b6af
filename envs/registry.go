package envs

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/zeu5/minebot/core"
)

var (
	ErrUnknownEnvironment = errors.New("unknown environment id")
	ErrClosed             = errors.New("environment is closed")
	ErrNotReset           = errors.New("environment has not been reset")
)

const (
	ObtainDiamondID = "MineRLObtainDiamond-v0"
	TreechopID      = "MineRLTreechop-v0"
	NavigateID      = "MineRLNavigate-v0"
	CartPoleLiteID  = "CartPoleLite-v0"
)

// Options are applied to every environment the registry builds.
type Options struct {
	Seed   int64
	Colors bool
}

// Factory builds a fresh environment instance.
type Factory func(opts Options) core.Environment

// Registry maps environment ids to factories.
type Registry struct {
	Options Options

	lock      *sync.Mutex
	factories map[string]Factory
}

var _ core.EnvironmentConstructor = &Registry{}

// NewRegistry returns a registry with the voxel tasks and cart-pole-lite
// registered.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		Options:   opts,
		lock:      new(sync.Mutex),
		factories: make(map[string]Factory),
	}
	r.Register(ObtainDiamondID, voxelFactory(ObtainDiamondID, func() Task {
		return &ObtainDiamondTask{Steps: 400}
	}))
	r.Register(TreechopID, voxelFactory(TreechopID, func() Task {
		return &TreechopTask{Steps: 300, Target: 64}
	}))
	r.Register(NavigateID, voxelFactory(NavigateID, func() Task {
		return &NavigateTask{Steps: 200, Bonus: 100}
	}))
	r.Register(CartPoleLiteID, func(opts Options) core.Environment {
		return NewCartPoleLiteEnv(opts.Seed, 200)
	})
	return r
}

func voxelFactory(id string, task func() Task) Factory {
	return func(opts Options) core.Environment {
		cfg := DefaultWorldConfig()
		cfg.Seed = opts.Seed
		env := NewVoxelEnv(id, task(), cfg)
		env.Colors = opts.Colors
		return env
	}
}

func (r *Registry) Register(id string, f Factory) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.factories[id] = f
}

// IDs lists the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewEnvironment builds the environment registered under id. host and port
// are reserved for connecting to a remote simulation server and are ignored.
func (r *Registry) NewEnvironment(id, host string, port int) (core.Environment, error) {
	r.lock.Lock()
	f, ok := r.factories[id]
	r.lock.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnvironment, id)
	}
	return f(r.Options), nil
}

// Make builds an environment from the default registry.
func Make(id, host string, port int) (core.Environment, error) {
	return NewRegistry(Options{Seed: 1}).NewEnvironment(id, host, port)
}
