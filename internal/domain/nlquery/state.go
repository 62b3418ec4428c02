package nlquery

// State is the pipeline position of one invocation.
// Idle -> Synthesizing -> Executing -> Formatting -> Done, with Failed
// reachable from every non-terminal state.
type State string

const (
	StateIdle         State = "idle"
	StateSynthesizing State = "synthesizing"
	StateExecuting    State = "executing"
	StateFormatting   State = "formatting"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

var nextState = map[State]State{
	StateIdle:         StateSynthesizing,
	StateSynthesizing: StateExecuting,
	StateExecuting:    StateFormatting,
	StateFormatting:   StateDone,
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether moving from s to to is a legal step.
func (s State) CanTransition(to State) bool {
	if s.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return nextState[s] == to
}

