package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/minebot/core"
	"github.com/zeu5/minebot/policies"
	"github.com/zeu5/minebot/util"
)

func runModel(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.done()

	env, err := s.registry.NewEnvironment(flags.EnvID, flags.Host, flags.Port)
	if err != nil {
		return err
	}
	agents := policies.NewMLPAgentConstructor(flags.EnvID, policies.Options{Seed: flags.Seed})

	result, err := core.Run(s.ctx, env, agents, &core.RunConfig{
		ModelPath: flags.ModelPath,
		Writer:    util.NewFrameWriter(s.out),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "episode finished after %s steps with reward %s\n",
		util.Steps(result.Steps), s.au.Green(fmt.Sprintf("%.2f", result.Reward)))
	if last, ok := result.Trace.Last(); ok && last.Event() != "" {
		fmt.Fprintf(s.out, "last event: %s\n", last.Event())
	}

	tracePath := path.Join(flags.SavePath, "run.json")
	if err := util.SaveJson(tracePath, result.Trace); err != nil {
		return fmt.Errorf("saving run trace: %w", err)
	}
	s.logger.Printf("saved run trace to %s", tracePath)
	return nil
}
