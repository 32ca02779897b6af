package core

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// scriptedEnv plays one-step episodes whose reward is taken from rewards in order.
type scriptedEnv struct {
	rewards []float64
	episode int
	resets  int
	steps   int
	closed  int
	renders int
	stepErr error
}

var _ Environment = &scriptedEnv{}

func (e *scriptedEnv) Spec() EnvSpec {
	return EnvSpec{ObservationSize: 2, ActionCount: 2, MaxEpisodeSteps: 1}
}

func (e *scriptedEnv) Reset() (Observation, error) {
	e.resets++
	return Observation{float64(e.episode), 0}, nil
}

func (e *scriptedEnv) Step(_ Action) (StepResult, error) {
	if e.stepErr != nil {
		return StepResult{}, e.stepErr
	}
	e.steps++
	reward := 0.0
	if e.episode < len(e.rewards) {
		reward = e.rewards[e.episode]
	}
	e.episode++
	return StepResult{Observation: Observation{0, 0}, Reward: reward, Done: true}, nil
}

func (e *scriptedEnv) Render(w io.Writer) error {
	e.renders++
	_, err := fmt.Fprintf(w, "frame %d\n", e.renders)
	return err
}

func (e *scriptedEnv) Close() error {
	e.closed++
	return nil
}

// walkEnv is a deterministic corridor: action 1 moves right (+1), action 0 stays (-0.5).
type walkEnv struct {
	length int
	pos    int
	t      int
	closed int
}

var _ Environment = &walkEnv{}

func (e *walkEnv) Spec() EnvSpec {
	return EnvSpec{ObservationSize: 1, ActionCount: 2, MaxEpisodeSteps: e.length * 2}
}

func (e *walkEnv) Reset() (Observation, error) {
	e.pos, e.t = 0, 0
	return Observation{0}, nil
}

func (e *walkEnv) Step(a Action) (StepResult, error) {
	e.t++
	reward := -0.5
	if a == 1 {
		e.pos++
		reward = 1
	}
	done := e.pos >= e.length || e.t >= e.length*2
	return StepResult{Observation: Observation{float64(e.pos)}, Reward: reward, Done: done}, nil
}

func (e *walkEnv) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "pos=%d\n", e.pos)
	return err
}

func (e *walkEnv) Close() error {
	e.closed++
	return nil
}

type fakeAgent struct {
	topology Topology
	learned  int
	learnErr error
	saved    []string
	action   Action
}

var _ Agent = &fakeAgent{}

func (a *fakeAgent) Learn(_ context.Context, steps int) error {
	if a.learnErr != nil {
		return a.learnErr
	}
	a.learned += steps
	return nil
}

func (a *fakeAgent) Predict(Observation) (Action, error) {
	return a.action, nil
}

func (a *fakeAgent) Topology() Topology {
	return a.topology
}

func (a *fakeAgent) Save(_ context.Context, path string) error {
	a.saved = append(a.saved, path)
	return nil
}

type fakeAgents struct {
	built    []*fakeAgent
	learnErr error
	loaded   map[string]*fakeAgent
}

var _ AgentConstructor = &fakeAgents{}

func (f *fakeAgents) NewAgent(_ Environment, topology Topology) (Agent, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	a := &fakeAgent{topology: topology.Copy(), learnErr: f.learnErr}
	f.built = append(f.built, a)
	return a, nil
}

func (f *fakeAgents) LoadAgent(_ context.Context, path string, _ Environment) (Agent, error) {
	a, ok := f.loaded[path]
	if !ok {
		return nil, errors.New("no checkpoint at " + path)
	}
	return a, nil
}

func (f *fakeAgents) last() *fakeAgent {
	return f.built[len(f.built)-1]
}
