package core

import (
	"encoding/json"
	"errors"
	"math"
)

var ErrInvalidTimesteps = errors.New("timesteps must be positive")

type TrainConfig struct {
	Timesteps int
	ModelPath string

	// InitialTopology defaults to DefaultTopology when empty.
	InitialTopology Topology
	// GrowthWidth defaults to DefaultLayerWidth when zero.
	GrowthWidth int
}

// PhaseSize is the number of steps trained between two evaluations.
func PhaseSize(timesteps int) int {
	size := timesteps / 3
	if size < 1 {
		return 1
	}
	return size
}

// PhaseCount is the number of phases a run of the given budget goes through.
func PhaseCount(timesteps int) int {
	if timesteps <= 0 {
		return 0
	}
	size := PhaseSize(timesteps)
	return (timesteps + size - 1) / size
}

type TrainingProgress struct {
	BestReward  float64
	TotalSteps  int
	PhaseSize   int
	TargetSteps int
}

func NewTrainingProgress(timesteps int) *TrainingProgress {
	return &TrainingProgress{
		BestReward:  math.Inf(-1),
		PhaseSize:   PhaseSize(timesteps),
		TargetSteps: timesteps,
	}
}

func (p *TrainingProgress) Done() bool {
	return p.TotalSteps >= p.TargetSteps
}

// Stalled reports whether reward fails to strictly beat the best reward so far.
// Ties count as a stall.
func (p *TrainingProgress) Stalled(reward float64) bool {
	return reward <= p.BestReward
}

type PhaseRecord struct {
	Phase      int      `json:"phase"`
	Reward     float64  `json:"reward"`
	BestBefore float64  `json:"best_before"`
	Grew       bool     `json:"grew"`
	Topology   Topology `json:"topology"`
	TotalSteps int      `json:"total_steps"`
}

type phaseRecordJSON struct {
	Phase      int      `json:"phase"`
	Reward     float64  `json:"reward"`
	BestBefore *float64 `json:"best_before"`
	Grew       bool     `json:"grew"`
	Topology   Topology `json:"topology"`
	TotalSteps int      `json:"total_steps"`
}

// MarshalJSON writes an infinite BestBefore (the first phase) as null.
func (r PhaseRecord) MarshalJSON() ([]byte, error) {
	out := phaseRecordJSON{
		Phase:      r.Phase,
		Reward:     r.Reward,
		Grew:       r.Grew,
		Topology:   r.Topology,
		TotalSteps: r.TotalSteps,
	}
	if !math.IsInf(r.BestBefore, 0) {
		best := r.BestBefore
		out.BestBefore = &best
	}
	return json.Marshal(out)
}

func (r *PhaseRecord) UnmarshalJSON(data []byte) error {
	var in phaseRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = PhaseRecord{
		Phase:      in.Phase,
		Reward:     in.Reward,
		BestBefore: math.Inf(-1),
		Grew:       in.Grew,
		Topology:   in.Topology,
		TotalSteps: in.TotalSteps,
	}
	if in.BestBefore != nil {
		r.BestBefore = *in.BestBefore
	}
	return nil
}

func (r PhaseRecord) Copy() PhaseRecord {
	r.Topology = r.Topology.Copy()
	return r
}

type PhaseObserver interface {
	ObservePhase(PhaseRecord)
}

type PhaseObserverFunc func(PhaseRecord)

func (f PhaseObserverFunc) ObservePhase(r PhaseRecord) {
	f(r)
}

// ComposedObserver fans phase records out to several observers in order.
type ComposedObserver []PhaseObserver

func (c ComposedObserver) ObservePhase(r PhaseRecord) {
	for _, o := range c {
		if o != nil {
			o.ObservePhase(r.Copy())
		}
	}
}

type TrainingResult struct {
	Progress TrainingProgress
	Topology Topology
	Phases   []PhaseRecord
}

// Growths counts the phases that ended with the network being grown.
func (r *TrainingResult) Growths() int {
	n := 0
	for _, p := range r.Phases {
		if p.Grew {
			n++
		}
	}
	return n
}
