package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/minebot/common"
)

var (
	flags     *common.Flags = common.DefaultFlags()
	timesteps int
	modelPath string
	envID     string
	train     bool
	eval      bool
	host      string
	port      int
	seed      int64

	configPath string
	savePath   string
	reportPath string
	statusAddr string
	noColor    bool
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().IntVar(&timesteps, "timesteps", flags.Timesteps, "Training timesteps")
	cmd.PersistentFlags().StringVar(&modelPath, "model-path", flags.ModelPath, "Path for model")
	cmd.PersistentFlags().StringVar(&envID, "env-id", flags.EnvID, "MineRL environment ID")
	cmd.PersistentFlags().BoolVar(&train, "train", flags.Train, "Run training instead of evaluation")
	cmd.PersistentFlags().BoolVar(&eval, "eval", flags.Eval, "Run a saved model (default when --train is not set)")
	cmd.PersistentFlags().StringVar(&host, "host", flags.Host, "Minecraft server IP (reserved, unused)")
	cmd.PersistentFlags().IntVar(&port, "port", flags.Port, "Minecraft server port (reserved, unused)")
	cmd.PersistentFlags().Int64Var(&seed, "seed", flags.Seed, "Seed for the world and the agent")

	cmd.PersistentFlags().StringVar(&configPath, "config", flags.ConfigPath, "Path to the player config")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&reportPath, "report", flags.ReportPath, "Write an HTML reward report to this path")
	cmd.PersistentFlags().StringVar(&statusAddr, "status-addr", flags.StatusAddr, "Serve training progress over HTTP on this address")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", flags.NoColor, "Disable colored output")
}

func UpdateFlags() {
	flags.Timesteps = timesteps
	flags.ModelPath = modelPath
	flags.EnvID = envID
	flags.Train = train
	flags.Eval = eval
	flags.Host = host
	flags.Port = port
	flags.Seed = seed

	flags.ConfigPath = configPath
	flags.SavePath = savePath
	flags.ReportPath = reportPath
	flags.StatusAddr = statusAddr
	flags.NoColor = noColor
}
