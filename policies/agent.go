package policies

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/zeu5/minebot/core"
	"github.com/zeu5/minebot/storage"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

type Options struct {
	Seed int64
	// StepSize is the initial perturbation spread.
	StepSize float64
	// Annealing shrinks the spread after every rejected candidate.
	Annealing   float64
	MinStepSize float64
	// Temperature of the softmax used to sample actions during training rollouts.
	Temperature float64
}

func DefaultOptions() Options {
	return Options{
		Seed:        1,
		StepSize:    0.5,
		Annealing:   0.95,
		MinStepSize: 0.01,
		Temperature: 1.0,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StepSize <= 0 {
		o.StepSize = d.StepSize
	}
	if o.Annealing <= 0 || o.Annealing > 1 {
		o.Annealing = d.Annealing
	}
	if o.MinStepSize <= 0 {
		o.MinStepSize = d.MinStepSize
	}
	if o.Temperature <= 0 {
		o.Temperature = d.Temperature
	}
	return o
}

// MLPAgent is a perceptron policy trained by perturbation hill climbing on
// rollouts in its bound environment.
type MLPAgent struct {
	env   core.Environment
	spec  core.EnvSpec
	envID string
	opts  Options

	net      *Network
	rand     *rand.Rand
	sampler  erand.Source
	stepSize float64

	incumbent    episodeScore
	scored       bool
	stepsLearned int
}

// episodeScore is the running return after every step of one rollout.
// complete is false when the step budget ran out before the episode ended.
type episodeScore struct {
	returns  []float64
	complete bool
}

// at is the return over the first h steps; a shorter complete episode
// contributes its full return.
func (e episodeScore) at(h int) float64 {
	if h > len(e.returns) {
		h = len(e.returns)
	}
	return e.returns[h-1]
}

// horizon is the number of steps over which two rollouts are compared: the
// shortest truncated rollout, or the longer episode when both completed.
func horizon(a, b episodeScore) int {
	h := 0
	for _, e := range []episodeScore{a, b} {
		if !e.complete && (h == 0 || len(e.returns) < h) {
			h = len(e.returns)
		}
	}
	if h == 0 {
		h = len(a.returns)
		if len(b.returns) > h {
			h = len(b.returns)
		}
	}
	return h
}

// beats reports whether candidate scores strictly higher than incumbent over
// their common horizon.
func (e episodeScore) beats(incumbent episodeScore) bool {
	h := horizon(e, incumbent)
	return e.at(h) > incumbent.at(h)
}

var _ core.Agent = &MLPAgent{}

func newMLPAgent(env core.Environment, envID string, net *Network, opts Options) *MLPAgent {
	opts = opts.withDefaults()
	return &MLPAgent{
		env:      env,
		spec:     env.Spec(),
		envID:    envID,
		opts:     opts,
		net:      net,
		rand:     rand.New(rand.NewSource(opts.Seed)),
		sampler:  erand.NewSource(uint64(opts.Seed)),
		stepSize: opts.StepSize,
	}
}

func (a *MLPAgent) Topology() core.Topology {
	return a.net.Topology()
}

func (a *MLPAgent) StepsLearned() int {
	return a.stepsLearned
}

// Predict picks the action with the highest logit.
func (a *MLPAgent) Predict(obs core.Observation) (core.Action, error) {
	logits, err := a.net.Forward(obs)
	if err != nil {
		return 0, err
	}
	return core.Action(argmax(logits)), nil
}

// Learn spends exactly steps environment steps. Each round rolls out a
// perturbed copy of the network and keeps it when its return beats the
// incumbent's over the same number of steps, so rollouts cut short by the
// budget are never compared against full episodes.
func (a *MLPAgent) Learn(ctx context.Context, steps int) error {
	budget := steps
	for budget > 0 {
		if !a.scored {
			score, err := a.rollout(ctx, a.net, budget)
			if err != nil {
				return err
			}
			budget -= len(score.returns)
			a.stepsLearned += len(score.returns)
			a.incumbent = score
			a.scored = true
			continue
		}

		candidate := a.net.Clone()
		candidate.Perturb(a.rand, a.stepSize)
		score, err := a.rollout(ctx, candidate, budget)
		if err != nil {
			return err
		}
		budget -= len(score.returns)
		a.stepsLearned += len(score.returns)
		if score.beats(a.incumbent) {
			a.net = candidate
			a.incumbent = score
			a.stepSize = a.opts.StepSize
		} else {
			a.stepSize = math.Max(a.opts.MinStepSize, a.stepSize*a.opts.Annealing)
		}
	}
	return nil
}

// rollout plays from a fresh reset until the episode ends or maxSteps is spent.
func (a *MLPAgent) rollout(ctx context.Context, net *Network, maxSteps int) (episodeScore, error) {
	obs, err := a.env.Reset()
	if err != nil {
		return episodeScore{}, err
	}
	score := episodeScore{returns: make([]float64, 0, maxSteps)}
	total := 0.0
	for len(score.returns) < maxSteps {
		if err := ctx.Err(); err != nil {
			return episodeScore{}, err
		}
		logits, err := net.Forward(obs)
		if err != nil {
			return episodeScore{}, err
		}
		action, err := a.sample(logits)
		if err != nil {
			return episodeScore{}, err
		}
		res, err := a.env.Step(action)
		if err != nil {
			return episodeScore{}, err
		}
		total += res.Reward
		score.returns = append(score.returns, total)
		if res.Done {
			score.complete = true
			break
		}
		obs = res.Observation
	}
	return score, nil
}

func (a *MLPAgent) sample(logits []float64) (core.Action, error) {
	weights := softmax(logits, a.opts.Temperature)
	i, ok := sampleuv.NewWeighted(weights, a.sampler).Take()
	if !ok {
		return 0, errors.New("no action could be sampled")
	}
	return core.Action(i), nil
}

func (a *MLPAgent) Checkpoint() storage.Checkpoint {
	c := storage.NewCheckpoint("")
	c.EnvID = a.envID
	c.ObservationSize = a.spec.ObservationSize
	c.ActionCount = a.spec.ActionCount
	c.Topology = a.net.Topology()
	c.Layers = a.net.Layers()
	c.Seed = a.opts.Seed
	return c
}

func (a *MLPAgent) Save(ctx context.Context, path string) error {
	return storage.SaveToPath(ctx, path, a.Checkpoint())
}
