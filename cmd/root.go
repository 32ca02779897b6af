package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/minebot/common"
)

func RootCommand() *cobra.Command {
	flags = common.DefaultFlags()
	cmd := &cobra.Command{
		Use:           "minebot",
		Short:         "Train and run a MineRL bot",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			UpdateFlags()
			return flags.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Mode() == common.ModeTrain {
				return trainModel(cmd)
			}
			return runModel(cmd)
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		TrainCommand(),
		RunCommand(),
	)

	return cmd
}

func TrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train an agent that grows its network when progress stalls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Eval {
				return common.ErrConflictingModes
			}
			flags.Train = true
			return trainModel(cmd)
		},
	}
}

func RunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a trained model for one rendered episode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Train {
				return common.ErrConflictingModes
			}
			return runModel(cmd)
		},
	}
}
