package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/console"
)

type consoleHandler struct {
	s       Stage
	timeout time.Duration
}

var _ console.Handler = &consoleHandler{}

// ConsoleHandler adapts a Stage to the console command set. Toggles wait for
// the loop for at most timeout.
//
// Parameters:
//   - s: the stage
//   - timeout: how long a toggle waits for the loop
//
// Returns:
//   - console.Handler: the handler
func ConsoleHandler(s Stage, timeout time.Duration) console.Handler {
	return &consoleHandler{s: s, timeout: timeout}
}

func (h *consoleHandler) Toggle() string {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	st, err := h.s.RequestToggleWait(ctx)
	if err != nil {
		return h.s.Label()
	}
	return st.Label
}

func (h *consoleHandler) Label() string {
	return h.s.Label()
}

func (h *consoleHandler) Status() string {
	st := h.s.Status()
	line := fmt.Sprintf("state=%s runner=%s batch=%d/%d loops=%d actions=%d",
		st.State, st.Runner, st.Position, st.QueueLength, st.Loops, st.ActiveActions)
	if !st.Loaded {
		line += " (asset not loaded)"
	}
	if st.LoadError != "" {
		line += " load_error=" + st.LoadError
	}
	if len(st.Unresolved) > 0 {
		line += fmt.Sprintf(" unresolved=%v", st.Unresolved)
	}
	return line
}
