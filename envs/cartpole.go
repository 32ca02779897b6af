package envs

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"

	"github.com/zeu5/minebot/core"
)

// CartPoleLiteEnv is a simplified 1D balancing control task: a force pushes a
// cart held by a spring toward the origin and every step pays for staying near
// the centre.
type CartPoleLiteEnv struct {
	Seed  int64
	Steps int

	x, v   float64
	t      int
	closed bool
}

var _ core.Environment = &CartPoleLiteEnv{}

func NewCartPoleLiteEnv(seed int64, steps int) *CartPoleLiteEnv {
	return &CartPoleLiteEnv{Seed: seed, Steps: steps}
}

func (e *CartPoleLiteEnv) Spec() core.EnvSpec {
	return core.EnvSpec{ObservationSize: 2, ActionCount: 3, MaxEpisodeSteps: e.Steps}
}

// Reset starts from the same seeded position every episode.
func (e *CartPoleLiteEnv) Reset() (core.Observation, error) {
	if e.closed {
		return nil, ErrClosed
	}
	r := rand.New(rand.NewSource(e.Seed))
	e.x = r.Float64()*1.6 - 0.8
	e.v = 0
	e.t = 0
	return core.Observation{e.x, e.v}, nil
}

// Step maps actions 0, 1, 2 to forces -1, 0, +1.
func (e *CartPoleLiteEnv) Step(a core.Action) (core.StepResult, error) {
	if e.closed {
		return core.StepResult{}, ErrClosed
	}
	if a < 0 || a > 2 {
		return core.StepResult{}, fmt.Errorf("action %d out of range [0, 3)", a)
	}
	var reward float64
	e.x, e.v, reward = cartPoleLiteStep(e.x, e.v, float64(a)-1)
	e.t++
	done := math.Abs(e.x) > 2.0 || e.t >= e.Steps
	return core.StepResult{
		Observation: core.Observation{e.x, e.v},
		Reward:      reward,
		Done:        done,
		Info:        map[string]interface{}{"step": e.t},
	}, nil
}

func (e *CartPoleLiteEnv) Render(w io.Writer) error {
	const width = 41
	track := []byte(strings.Repeat("-", width))
	track[width/2] = '|'
	pos := int(math.Round((e.x + 2) / 4 * float64(width-1)))
	if pos >= 0 && pos < width {
		track[pos] = '#'
	}
	_, err := fmt.Fprintf(w, "[%s] x=%+.3f v=%+.3f t=%d\n", track, e.x, e.v, e.t)
	return err
}

func (e *CartPoleLiteEnv) Close() error {
	e.closed = true
	return nil
}

func cartPoleLiteStep(x, v, force float64) (nextX, nextV, reward float64) {
	const (
		dt       = 0.1
		kPos     = 0.45
		kVel     = 0.15
		forceK   = 1.25
		maxForce = 1.0
	)
	if force > maxForce {
		force = maxForce
	}
	if force < -maxForce {
		force = -maxForce
	}

	acc := forceK*force - kPos*x - kVel*v
	v = v + acc*dt
	x = x + v*dt
	reward = 1.0 - math.Min(1.0, math.Abs(x)/2.0)
	return x, v, reward
}
