package diag

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Dump writes a verbose structural dump of v to w, for use alongside a
// panic on a violated internal invariant (nil Program, cross-Program
// handle) where a host wants to see the full state that triggered it.
func Dump(w io.Writer, v any) {
	spew.Fdump(w, v)
}
