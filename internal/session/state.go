package session

// State represents session lifecycle states.
type State string

const (
	// StateInitializing covers pty allocation, spawn, and relay startup.
	StateInitializing State = "initializing"
	// StateRunning means both relays are live and the child is executing.
	StateRunning State = "running"
	// StateDraining means the child exited and the relays are stopping.
	StateDraining State = "draining"
	// StateTerminated means resources are released and the status is known.
	StateTerminated State = "terminated"
)
