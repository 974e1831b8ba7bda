package bootstrap

// State is the launch-time session state. The machine moves from
// Initializing to exactly one terminal state and is re-entered only on
// explicit logout/login, never concurrently within one launch.
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Event is an observation made during bootstrap.
type Event int

const (
	// EventNoStoredSession: the keystore held no token pair.
	EventNoStoredSession Event = iota
	// EventAccountResolved: getMe succeeded (directly or after one refresh).
	EventAccountResolved
	// EventSessionInvalid: the stored session could not be proven usable.
	EventSessionInvalid
)

// Transition is the pure state function. Terminal states absorb all events;
// only Initializing moves.
func Transition(s State, e Event) State {
	if s != StateInitializing {
		return s
	}
	switch e {
	case EventAccountResolved:
		return StateAuthenticated
	case EventNoStoredSession, EventSessionInvalid:
		return StateUnauthenticated
	}
	return s
}
