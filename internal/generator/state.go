package generator

import (
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/generator/openai"
)

// State of an assistant run as seen by the poller.
type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timedOut"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateTimedOut
}

// Transition returns the state after observing status at elapsed time since
// the run started. An empty status means no new observation. Terminal states
// never change; a terminal status wins over the deadline, a non-terminal one
// past the deadline becomes StateTimedOut.
func Transition(current State, status string, elapsed, timeout time.Duration) State {
	if current.Terminal() {
		return current
	}

	next := current
	switch status {
	case "":
	case openai.RunQueued:
		next = StatePending
	case openai.RunInProgress:
		next = StateRunning
	case openai.RunCompleted:
		return StateCompleted
	default:
		return StateFailed
	}

	if elapsed >= timeout {
		return StateTimedOut
	}
	return next
}
