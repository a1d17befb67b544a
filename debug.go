package boxmark

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogOutput receives every log line the package writes. Defaults to stderr.
var LogOutput io.Writer = os.Stderr

var logMu sync.Mutex

// logf writes a "[boxmark]" prefixed line to LogOutput.
func logf(format string, args ...any) {
	logMu.Lock()
	defer logMu.Unlock()
	_, _ = fmt.Fprintf(LogOutput, "[boxmark] "+format+"\n", args...)
}

// debugf logs only when the editor is in debug mode.
func (e *Editor) debugf(format string, args ...any) {
	if !e.debug {
		return
	}
	logf("debug: "+format, args...)
}

// SetDebugMode enables or disables debug mode. When enabled, every applied
// command and gesture transition is logged and store invariants are checked
// after each command.
func (e *Editor) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// debugCheckInvariants warns about state that should never exist after a
// command: a selection pointing outside the store and shapes below the
// minimum size. Imported files can legitimately carry undersized shapes, so
// these are warnings, not panics.
func (e *Editor) debugCheckInvariants(op string) {
	if !e.debug {
		return
	}
	if id, ok := e.selection.ID(); ok && !e.store.Has(id) {
		logf("warning: %s left stale selection %q", op, id)
	}
	minSize := e.cfg.Shapes.MinSize
	for _, r := range e.store.shapes {
		if r.Width < minSize || r.Height < minSize {
			logf("warning: %s: shape %q is %vx%v, below minimum %v", op, r.ID, r.Width, r.Height, minSize)
		}
	}
}
