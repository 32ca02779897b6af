package core

import (
	"context"
	"io"
)

type RunConfig struct {
	ModelPath string
	// Writer receives one rendered frame per step. Writers with a Flush method
	// (such as a uilive writer) are flushed after every frame.
	Writer io.Writer
}

type RunResult struct {
	Reward float64
	Steps  int
	Trace  *Trace
}

type flusher interface {
	Flush() error
}

// Run loads the checkpoint bound to env and plays exactly one rendered episode
// without learning. The environment is closed when the episode ends.
func Run(ctx context.Context, env Environment, agents AgentConstructor, rConfig *RunConfig) (*RunResult, error) {
	agent, err := agents.LoadAgent(ctx, rConfig.ModelPath, env)
	if err != nil {
		return nil, err
	}

	writer := rConfig.Writer
	if writer == nil {
		writer = io.Discard
	}

	result := &RunResult{Trace: NewTrace()}
	obs, err := env.Reset()
	if err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		action, err := agent.Predict(obs)
		if err != nil {
			return nil, err
		}
		res, err := env.Step(action)
		if err != nil {
			return nil, err
		}
		if err := env.Render(writer); err != nil {
			return nil, err
		}
		if f, ok := writer.(flusher); ok {
			if err := f.Flush(); err != nil {
				return nil, err
			}
		}

		step := result.Trace.Record(Step{
			Observation: obs,
			Action:      action,
			Reward:      res.Reward,
			Done:        res.Done,
			Info:        res.Info,
		})
		result.Reward = step.Return
		result.Steps = step.Index + 1
		if res.Done {
			break
		}
		obs = res.Observation
	}

	if err := env.Close(); err != nil {
		return nil, err
	}
	return result, nil
}
