package core

import "io"

// Observation is the flat feature vector an environment hands to the agent.
type Observation []float64

// Action indexes into the discrete action set of an environment.
type Action int

type EnvSpec struct {
	ObservationSize int
	ActionCount     int
	// MaxEpisodeSteps bounds every episode; environments signal Done on reaching it.
	MaxEpisodeSteps int
}

type StepResult struct {
	Observation Observation
	Reward      float64
	Done        bool
	Info        map[string]interface{}
}

type Environment interface {
	Spec() EnvSpec
	Reset() (Observation, error)
	Step(Action) (StepResult, error)
	Render(io.Writer) error
	Close() error
}

type EnvironmentConstructor interface {
	// NewEnvironment resolves the identifier and builds a new environment.
	// host and port are reserved for remote servers.
	NewEnvironment(id string, host string, port int) (Environment, error)
}

func (o Observation) Copy() Observation {
	out := make(Observation, len(o))
	copy(out, o)
	return out
}
