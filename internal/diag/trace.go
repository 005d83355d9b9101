// Package diag provides optional diagnostic tracing and structural
// dumping for a typegraph Program. None of it is on the hot path by
// default: a nil *Trace is always safe to use and records nothing.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Trace records Solver and PathFinder query events for a single
// Program session. The zero value is usable but discards everything;
// callers that want output must set Out.
type Trace struct {
	Out    io.Writer
	Color  bool
	events int
}

// NewTrace returns a Trace writing to w, auto-detecting color support
// via isatty unless forceColor overrides it.
func NewTrace(w io.Writer, forceColor ...bool) *Trace {
	t := &Trace{Out: w}
	if len(forceColor) > 0 {
		t.Color = forceColor[0]
	} else if f, ok := w.(*os.File); ok {
		t.Color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return t
}

// Solve logs a Solver state-machine transition: a (goal description,
// node name) pair moving from Pending to its settled verdict.
func (t *Trace) Solve(goals string, node string, pending bool, verdict bool) {
	if t == nil || t.Out == nil {
		return
	}
	t.events++
	state := "solved"
	if pending {
		state = "pending"
	}
	t.printf(verdictColor(verdict), "[solve] %-7s goals=%s node=%s verdict=%v", state, goals, node, verdict)
}

// Path logs a PathFinder query and whether it found anything.
func (t *Trace) Path(kind, start, finish string, found bool) {
	if t == nil || t.Out == nil {
		return
	}
	t.events++
	t.printf(verdictColor(found), "[path]  %-22s %s -> %s found=%v", kind, start, finish, found)
}

// Events returns the number of events recorded so far.
func (t *Trace) Events() int {
	if t == nil {
		return 0
	}
	return t.events
}

func verdictColor(ok bool) *color.Color {
	if ok {
		return color.New(color.FgGreen)
	}
	return color.New(color.FgRed)
}

func (t *Trace) printf(c *color.Color, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if t.Color {
		c.Fprintln(t.Out, line)
		return
	}
	fmt.Fprintln(t.Out, line)
}
