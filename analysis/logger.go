package analysis

import (
	"fmt"
	"log"
	"math"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/minebot/core"
	"github.com/zeu5/minebot/util"
)

// PhaseLogger writes one line per phase to a logger.
type PhaseLogger struct {
	logger      *log.Logger
	au          aurora.Aurora
	targetSteps int
}

var _ core.PhaseObserver = &PhaseLogger{}

func NewPhaseLogger(logger *log.Logger, colors bool, targetSteps int) *PhaseLogger {
	return &PhaseLogger{
		logger:      logger,
		au:          aurora.NewAurora(colors),
		targetSteps: targetSteps,
	}
}

func (p *PhaseLogger) ObservePhase(r core.PhaseRecord) {
	p.logger.Println(FormatPhase(p.au, r, p.targetSteps))
}

// FormatPhase describes a phase outcome: the reward, the best reward before
// the phase and whether the network was grown.
func FormatPhase(au aurora.Aurora, r core.PhaseRecord, targetSteps int) string {
	best := "none"
	if !math.IsInf(r.BestBefore, 0) {
		best = fmt.Sprintf("%.2f", r.BestBefore)
	}
	outcome := au.Green("improved").String()
	if r.Grew {
		outcome = au.Yellow(fmt.Sprintf("stalled, grew to %v", []int(r.Topology))).String()
	}
	return fmt.Sprintf("phase %d steps %s reward %.2f best %s: %s",
		r.Phase, util.StepsOf(r.TotalSteps, targetSteps), r.Reward, best, outcome)
}
