package status

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/minebot/core"
)

// Progress is the JSON view of a running training session.
type Progress struct {
	EnvID       string    `json:"env_id"`
	Player      string    `json:"player"`
	TargetSteps int       `json:"target_steps"`
	TotalSteps  int       `json:"total_steps"`
	PhaseSize   int       `json:"phase_size"`
	Phases      int       `json:"phases"`
	Growths     int       `json:"growths"`
	BestReward  *float64  `json:"best_reward"`
	Topology    []int     `json:"topology"`
	Done        bool      `json:"done"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p Progress) Copy() Progress {
	out := p
	out.Topology = append([]int(nil), p.Topology...)
	if p.BestReward != nil {
		best := *p.BestReward
		out.BestReward = &best
	}
	return out
}

// Server exposes training progress over HTTP while the trainer runs. It
// observes phases and serves copies of what it has seen.
type Server struct {
	Addr string
	// Logger receives listen errors; nil discards them.
	Logger *log.Logger

	ctx    context.Context
	server *http.Server
	engine *gin.Engine

	lock     *sync.Mutex
	progress Progress
	phases   []core.PhaseRecord
}

var _ core.PhaseObserver = &Server{}

func NewServer(ctx context.Context, addr, envID, player string, timesteps int) *Server {
	s := &Server{
		Addr: addr,
		ctx:  ctx,
		lock: new(sync.Mutex),
		progress: Progress{
			EnvID:       envID,
			Player:      player,
			TargetSteps: timesteps,
			PhaseSize:   core.PhaseSize(timesteps),
			Topology:    core.DefaultTopology(),
			StartedAt:   time.Now(),
		},
		phases: make([]core.PhaseRecord, 0),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/health", healthHandler)
	r.GET("/progress", s.handleProgress)
	r.GET("/phases", s.handlePhases)
	s.engine = r
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Handler is the router, usable without listening on Addr.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) ObservePhase(r core.PhaseRecord) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.phases = append(s.phases, r.Copy())
	s.progress.Phases = len(s.phases)
	s.progress.TotalSteps = r.TotalSteps
	s.progress.Topology = r.Topology.Copy()
	if r.Grew {
		s.progress.Growths++
	} else if finite(r.Reward) {
		best := r.Reward
		s.progress.BestReward = &best
	}
	s.progress.Done = r.TotalSteps >= s.progress.TargetSteps
	s.progress.UpdatedAt = time.Now()
}

func (s *Server) Progress() Progress {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.progress.Copy()
}

func (s *Server) Phases() []core.PhaseRecord {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]core.PhaseRecord, len(s.phases))
	for i, p := range s.phases {
		out[i] = p.Copy()
	}
	return out
}

func (s *Server) handleProgress(c *gin.Context) {
	c.JSON(http.StatusOK, s.Progress())
}

func (s *Server) handlePhases(c *gin.Context) {
	phases := s.Phases()
	if last := c.Query("last"); last == "true" {
		if len(phases) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no phase finished yet"})
			return
		}
		c.JSON(http.StatusOK, phases[len(phases)-1])
		return
	}
	c.JSON(http.StatusOK, phases)
}

// Start serves until the context passed to NewServer is cancelled.
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && s.Logger != nil {
			s.Logger.Printf("status server on %s stopped: %s", s.Addr, err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
