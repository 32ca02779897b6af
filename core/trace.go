package core

import (
	"encoding/json"
	"sync"
)

// Step is one transition of a rendered run.
type Step struct {
	Index       int                    `json:"index"`
	Observation Observation            `json:"observation"`
	Action      Action                 `json:"action"`
	Reward      float64                `json:"reward"`
	Return      float64                `json:"return"`
	Done        bool                   `json:"done"`
	Info        map[string]interface{} `json:"info,omitempty"`
}

// Event is the "event" entry environments put in Info, if any.
func (s Step) Event() string {
	if e, ok := s.Info["event"].(string); ok {
		return e
	}
	return ""
}

// Trace records the transitions of one run episode. Record numbers the steps
// and keeps the running return.
type Trace struct {
	lock  sync.Mutex
	steps []Step
	total float64
}

func NewTrace() *Trace {
	return &Trace{steps: make([]Step, 0)}
}

func (t *Trace) Record(s Step) Step {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.total += s.Reward
	s.Index = len(t.steps)
	s.Return = t.total
	s.Observation = s.Observation.Copy()
	t.steps = append(t.steps, s)
	return s
}

func (t *Trace) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.steps)
}

// Last returns the most recent step; ok is false for an empty trace.
func (t *Trace) Last() (Step, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if len(t.steps) == 0 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1], true
}

func (t *Trace) Steps() []Step {
	t.lock.Lock()
	defer t.lock.Unlock()
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

func (t *Trace) TotalReward() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.total
}

type traceJSON struct {
	Steps       []Step  `json:"steps"`
	TotalReward float64 `json:"total_reward"`
	FinalEvent  string  `json:"final_event,omitempty"`
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	out := traceJSON{Steps: t.Steps(), TotalReward: t.TotalReward()}
	if last, ok := t.Last(); ok {
		out.FinalEvent = last.Event()
	}
	return json.Marshal(out)
}

func (t *Trace) UnmarshalJSON(data []byte) error {
	var in traceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	t.steps = in.Steps
	t.total = in.TotalReward
	return nil
}
