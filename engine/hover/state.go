package hover

// State is the phase of a Controller's hover transition.
type State int

const (
	// StateIdle is at rest: progress 0, time frozen.
	StateIdle State = iota

	// StateEntering is animating progress toward 1.
	StateEntering

	// StateActive is holding at the end of an enter transition, or at a manually set progress above 0.
	StateActive

	// StateExiting is animating progress toward 0.
	StateExiting
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEntering:
		return "entering"
	case StateActive:
		return "active"
	case StateExiting:
		return "exiting"
	}
	return "unknown"
}

// Animating reports whether the time accumulator advances in this state.
func (s State) Animating() bool {
	return s != StateIdle
}
