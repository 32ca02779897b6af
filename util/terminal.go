package util

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Steps formats a step count with thousands separators.
func Steps(n int) string {
	return humanize.Comma(int64(n))
}

// StepsOf formats done out of total steps along with the percentage.
func StepsOf(done, total int) string {
	if total <= 0 {
		return Steps(done)
	}
	return fmt.Sprintf("%s/%s (%.0f%%)", Steps(done), Steps(total), 100*float64(done)/float64(total))
}

// FrameWriter is an io.Writer whose buffered output is shown once Flush is
// called.
type FrameWriter interface {
	io.Writer
	Flush() error
}

// NewFrameWriter redraws frames in place when out is a terminal and otherwise
// appends them to out.
func NewFrameWriter(out io.Writer) FrameWriter {
	f, ok := out.(*os.File)
	if !ok || !IsTerminal(f) {
		return &plainFrameWriter{w: out}
	}
	w := uilive.New()
	w.Out = f
	return w
}

// Interactive reports whether out is a terminal file.
func Interactive(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && IsTerminal(f)
}

type plainFrameWriter struct {
	w io.Writer
}

func (p *plainFrameWriter) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

func (p *plainFrameWriter) Flush() error {
	return nil
}
