package analysis

import (
	"path"
	"sync"

	"github.com/zeu5/minebot/core"
	"github.com/zeu5/minebot/util"
	"gonum.org/v1/gonum/stat"
)

// historyDataset is the per-phase series collected during training.
type historyDataset struct {
	Timesteps []int     `json:"timesteps"`
	Rewards   []float64 `json:"rewards"`
	Depths    []int     `json:"depths"`
}

func (h *historyDataset) Copy() *historyDataset {
	out := &historyDataset{
		Timesteps: make([]int, len(h.Timesteps)),
		Rewards:   make([]float64, len(h.Rewards)),
		Depths:    make([]int, len(h.Depths)),
	}
	copy(out.Timesteps, h.Timesteps)
	copy(out.Rewards, h.Rewards)
	copy(out.Depths, h.Depths)
	return out
}

// PhaseHistory records every phase of a training run. It is safe to read
// while training is in progress.
type PhaseHistory struct {
	lock    *sync.Mutex
	records []core.PhaseRecord
	dataset *historyDataset
}

var _ core.PhaseObserver = &PhaseHistory{}

func NewPhaseHistory() *PhaseHistory {
	return &PhaseHistory{
		lock:    new(sync.Mutex),
		records: make([]core.PhaseRecord, 0),
		dataset: &historyDataset{
			Timesteps: make([]int, 0),
			Rewards:   make([]float64, 0),
			Depths:    make([]int, 0),
		},
	}
}

func (h *PhaseHistory) ObservePhase(r core.PhaseRecord) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.records = append(h.records, r.Copy())
	h.dataset.Timesteps = append(h.dataset.Timesteps, r.TotalSteps)
	h.dataset.Rewards = append(h.dataset.Rewards, r.Reward)
	h.dataset.Depths = append(h.dataset.Depths, len(r.Topology))
}

// Records returns copies of the phases seen so far.
func (h *PhaseHistory) Records() []core.PhaseRecord {
	h.lock.Lock()
	defer h.lock.Unlock()
	out := make([]core.PhaseRecord, len(h.records))
	for i, r := range h.records {
		out[i] = r.Copy()
	}
	return out
}

func (h *PhaseHistory) Len() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.records)
}

func (h *PhaseHistory) dataSet() *historyDataset {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.dataset.Copy()
}

// Summary aggregates the evaluation rewards of a run.
type Summary struct {
	Phases     int     `json:"phases"`
	Growths    int     `json:"growths"`
	MeanReward float64 `json:"mean_reward"`
	StdReward  float64 `json:"std_reward"`
	MaxReward  float64 `json:"max_reward"`
	FinalDepth int     `json:"final_depth"`
}

func (h *PhaseHistory) Summary() Summary {
	h.lock.Lock()
	defer h.lock.Unlock()
	s := Summary{Phases: len(h.records)}
	if s.Phases == 0 {
		return s
	}
	rewards := h.dataset.Rewards
	s.MaxReward = rewards[0]
	for i, r := range h.records {
		if r.Grew {
			s.Growths++
		}
		if rewards[i] > s.MaxReward {
			s.MaxReward = rewards[i]
		}
	}
	if s.Phases > 1 {
		s.MeanReward, s.StdReward = stat.MeanStdDev(rewards, nil)
	} else {
		s.MeanReward = rewards[0]
	}
	s.FinalDepth = len(h.records[s.Phases-1].Topology)
	return s
}

type historyFile struct {
	Summary Summary            `json:"summary"`
	Phases  []core.PhaseRecord `json:"phases"`
}

// Save writes the summary and every phase record to phases.json under dir.
func (h *PhaseHistory) Save(dir string) error {
	return util.SaveJson(path.Join(dir, "phases.json"), historyFile{
		Summary: h.Summary(),
		Phases:  h.Records(),
	})
}

// LoadPhases reads the phase records saved by Save.
func LoadPhases(dir string) ([]core.PhaseRecord, error) {
	var f historyFile
	if err := util.LoadJson(path.Join(dir, "phases.json"), &f); err != nil {
		return nil, err
	}
	return f.Phases, nil
}
