package report

// State is a stage of a single Generate call
type State int

const (
	StateIdle State = iota
	StateResolving
	StateValidating
	StateProcessing
	StateRendering
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateResolving:  "resolving",
	StateValidating: "validating",
	StateProcessing: "processing",
	StateRendering:  "rendering",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Observer is notified of every state transition
type Observer func(from, to State)
