package core

import "context"

// Evaluate plays one full episode with the agent's greedy actions and returns the
// summed reward. The agent is not updated; the environment is left at the
// terminal observation.
func Evaluate(ctx context.Context, agent Agent, env Environment) (float64, error) {
	obs, err := env.Reset()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		action, err := agent.Predict(obs)
		if err != nil {
			return 0, err
		}
		res, err := env.Step(action)
		if err != nil {
			return 0, err
		}
		total += res.Reward
		if res.Done {
			return total, nil
		}
		obs = res.Observation
	}
}
