package common

import (
	"errors"
	"path"

	"github.com/zeu5/minebot/util"
)

var ErrConflictingModes = errors.New("--train and --eval cannot be used together")

type Mode string

const (
	ModeTrain Mode = "train"
	ModeRun   Mode = "run"
)

type Flags struct {
	EnvFlags
	TrainFlags
	OutputFlags
	ConfigPath string
}

type EnvFlags struct {
	EnvID string
	Host  string
	Port  int
	Seed  int64
}

type TrainFlags struct {
	Train     bool
	Eval      bool
	Timesteps int
	ModelPath string
}

type OutputFlags struct {
	SavePath   string
	ReportPath string
	StatusAddr string
	NoColor    bool
}

func DefaultFlags() *Flags {
	return &Flags{
		EnvFlags: EnvFlags{
			EnvID: "MineRLObtainDiamond-v0",
			Host:  "",
			Port:  25565,
			Seed:  1,
		},
		TrainFlags: TrainFlags{
			Train:     false,
			Eval:      false,
			Timesteps: 1000,
			ModelPath: "ppo_minerl",
		},
		OutputFlags: OutputFlags{
			SavePath:   "results",
			ReportPath: "",
			StatusAddr: "",
			NoColor:    false,
		},
		ConfigPath: "config.json",
	}
}

func (f *Flags) Validate() error {
	if f.Train && f.Eval {
		return ErrConflictingModes
	}
	return nil
}

// Mode is training when --train is set and running a saved model otherwise.
func (f *Flags) Mode() Mode {
	if f.Train && !f.Eval {
		return ModeTrain
	}
	return ModeRun
}

// Record saves the effective flags to flags.json under the save path.
func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "flags.json"), f)
}
