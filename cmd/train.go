package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/minebot/analysis"
	"github.com/zeu5/minebot/core"
	"github.com/zeu5/minebot/policies"
	"github.com/zeu5/minebot/status"
	"github.com/zeu5/minebot/util"
)

func trainModel(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.done()

	if err := flags.Record(); err != nil {
		return fmt.Errorf("recording flags: %w", err)
	}

	env, err := s.registry.NewEnvironment(flags.EnvID, flags.Host, flags.Port)
	if err != nil {
		return err
	}
	agents := policies.NewMLPAgentConstructor(flags.EnvID, policies.Options{Seed: flags.Seed})

	history := analysis.NewPhaseHistory()
	observers := core.ComposedObserver{history}

	if flags.StatusAddr != "" {
		server := status.NewServer(s.ctx, flags.StatusAddr, flags.EnvID, s.identity.Name, flags.Timesteps)
		server.Logger = s.logger
		server.Start()
		observers = append(observers, server)
		s.logger.Printf("serving training progress on http://%s/progress", flags.StatusAddr)
	}

	if s.colors {
		printer := util.NewProgressPrinter(s.out, 500*time.Millisecond)
		progressLine := printer.NewLine()
		phaseLine := printer.NewLine()
		progressLine.Setf("training %s: %s", flags.EnvID, util.StepsOf(0, flags.Timesteps))
		phaseLine.Set("waiting for the first evaluation")
		observers = append(observers, core.PhaseObserverFunc(func(r core.PhaseRecord) {
			progressLine.Setf("training %s: %s", flags.EnvID, util.StepsOf(r.TotalSteps, flags.Timesteps))
			phaseLine.Set(analysis.FormatPhase(s.au, r, flags.Timesteps))
		}))
		printer.Start(s.ctx)
		defer printer.Stop()
	} else {
		observers = append(observers, analysis.NewPhaseLogger(s.logger, false, flags.Timesteps))
	}

	trainer := core.NewAdaptiveTrainer(env, agents)
	trainer.Observer = observers

	s.logger.Printf("training on %s for %s steps in %d phases of %s",
		flags.EnvID, util.Steps(flags.Timesteps), core.PhaseCount(flags.Timesteps), util.Steps(core.PhaseSize(flags.Timesteps)))
	result, err := trainer.Train(s.ctx, core.TrainConfig{
		Timesteps: flags.Timesteps,
		ModelPath: flags.ModelPath,
	})
	if err != nil {
		return err
	}

	if err := history.Save(flags.SavePath); err != nil {
		return fmt.Errorf("saving phase history: %w", err)
	}
	if flags.ReportPath != "" {
		if err := analysis.SaveReport(flags.ReportPath, flags.EnvID, history); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		s.logger.Printf("wrote reward report to %s", flags.ReportPath)
	}

	s.logger.Printf("saved model to %s: topology %v after %d growths, best reward %.2f",
		flags.ModelPath, []int(result.Topology), result.Growths(), result.Progress.BestReward)
	return nil
}
