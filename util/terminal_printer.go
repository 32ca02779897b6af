package util

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// ProgressPrinter periodically redraws a fixed set of status lines in place.
type ProgressPrinter struct {
	lines     []*StatusLine
	frequency time.Duration
	doneCh    chan struct{}
	stopped   chan struct{}
	once      *sync.Once

	writer  *uilive.Writer
	writers []io.Writer
}

func NewProgressPrinter(out io.Writer, frequency time.Duration) *ProgressPrinter {
	w := uilive.New()
	w.Out = out
	return &ProgressPrinter{
		lines:     make([]*StatusLine, 0),
		frequency: frequency,
		doneCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
		once:      new(sync.Once),

		writer:  w,
		writers: make([]io.Writer, 0),
	}
}

// NewLine adds a status line. Lines must be added before Start.
func (p *ProgressPrinter) NewLine() *StatusLine {
	line := NewStatusLine()
	if len(p.lines) == 0 {
		p.writers = append(p.writers, p.writer)
	} else {
		p.writers = append(p.writers, p.writer.Newline())
	}
	p.lines = append(p.lines, line)
	return line
}

func (p *ProgressPrinter) Start(ctx context.Context) {
	go func() {
		defer close(p.stopped)
		for {
			select {
			case <-p.doneCh:
				p.print()
				return
			case <-ctx.Done():
				p.print()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop draws the lines one last time and waits for the refresh loop to exit.
func (p *ProgressPrinter) Stop() {
	p.once.Do(func() { close(p.doneCh) })
	<-p.stopped
}

func (p *ProgressPrinter) print() {
	for i, line := range p.lines {
		fmt.Fprintln(p.writers[i], line.Get())
	}
	p.writer.Flush()
}

// StatusLine holds the latest text of one progress line.
type StatusLine struct {
	mu        *sync.Mutex
	printable string
}

func NewStatusLine() *StatusLine {
	return &StatusLine{
		mu:        new(sync.Mutex),
		printable: "",
	}
}

func (s *StatusLine) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printable = text
}

func (s *StatusLine) Setf(format string, args ...interface{}) {
	s.Set(fmt.Sprintf(format, args...))
}

func (s *StatusLine) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.printable
}
