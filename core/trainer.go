package core

import "context"

// AdaptiveTrainer trains an agent in fixed-size phases and deepens its network
// whenever an evaluation fails to beat the best reward seen so far.
type AdaptiveTrainer struct {
	Environment Environment
	Agents      AgentConstructor
	Observer    PhaseObserver
}

func NewAdaptiveTrainer(env Environment, agents AgentConstructor) *AdaptiveTrainer {
	return &AdaptiveTrainer{
		Environment: env,
		Agents:      agents,
	}
}

// Train runs the whole budget, saves the final agent to cfg.ModelPath and
// closes the environment. Errors from the agent or environment are returned as
// is; in that case nothing is saved and the environment stays open.
func (t *AdaptiveTrainer) Train(ctx context.Context, cfg TrainConfig) (*TrainingResult, error) {
	if cfg.Timesteps <= 0 {
		return nil, ErrInvalidTimesteps
	}
	topology := cfg.InitialTopology.Copy()
	if len(topology) == 0 {
		topology = DefaultTopology()
	}
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	growthWidth := cfg.GrowthWidth
	if growthWidth <= 0 {
		growthWidth = DefaultLayerWidth
	}

	progress := NewTrainingProgress(cfg.Timesteps)
	result := &TrainingResult{
		Phases: make([]PhaseRecord, 0, PhaseCount(cfg.Timesteps)),
	}

	agent, err := t.Agents.NewAgent(t.Environment, topology)
	if err != nil {
		return nil, err
	}

	for phase := 1; !progress.Done(); phase++ {
		if err := agent.Learn(ctx, progress.PhaseSize); err != nil {
			return nil, err
		}
		progress.TotalSteps += progress.PhaseSize

		reward, err := Evaluate(ctx, agent, t.Environment)
		if err != nil {
			return nil, err
		}

		record := PhaseRecord{
			Phase:      phase,
			Reward:     reward,
			BestBefore: progress.BestReward,
			TotalSteps: progress.TotalSteps,
		}
		if progress.Stalled(reward) {
			// The old agent is dropped; the new one starts from random weights.
			topology = topology.Grow(growthWidth)
			agent, err = t.Agents.NewAgent(t.Environment, topology)
			if err != nil {
				return nil, err
			}
			record.Grew = true
		} else {
			progress.BestReward = reward
		}
		record.Topology = topology.Copy()
		result.Phases = append(result.Phases, record)
		if t.Observer != nil {
			t.Observer.ObservePhase(record.Copy())
		}
	}

	if err := agent.Save(ctx, cfg.ModelPath); err != nil {
		return nil, err
	}
	if err := t.Environment.Close(); err != nil {
		return nil, err
	}

	result.Progress = *progress
	result.Topology = topology.Copy()
	return result, nil
}
