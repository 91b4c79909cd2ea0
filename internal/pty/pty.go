package pty

import (
	"errors"
	"io"
	"syscall"
)

var (
	// ErrAllocation reports that no pseudo-terminal pair could be acquired.
	ErrAllocation = errors.New("pty allocation")

	// ErrSpawn reports that the child could not be started on the
	// subordinate side.
	ErrSpawn = errors.New("spawn child")

	// ErrUnsupported reports that this platform cannot attach children
	// to pseudo-terminals.
	ErrUnsupported = errors.New("pty sessions unsupported on this platform")
)

// Controller is the parent-side handle of an attached pseudo-terminal.
// Reads deliver the child's output; writes feed the child's input.
type Controller interface {
	io.Reader
	io.Writer

	// Resize sets the subordinate side's geometry. The kernel raises
	// SIGWINCH in the child's process group.
	Resize(rows, cols uint16) error

	// Close releases the controller descriptor. A pending read fails,
	// which is how relays learn the session is over.
	Close() error
}

// Child is the wait handle of the spawned process.
type Child interface {
	// Wait blocks until the child exits and reports how. It consumes
	// the exit status and must be called exactly once.
	Wait() Status

	// Kill forcibly terminates the child. It is for cutting a session
	// short from outside; normal teardown waits for the child instead.
	Kill() error
}

// Status describes how a child ended.
type Status struct {
	ExitCode int
	Signal   syscall.Signal
	Signaled bool
}

// Code translates the status into the exit code the calling process
// should report: the child's own code, or 128 plus the signal number
// when the child was killed.
func (s Status) Code() int {
	if s.Signaled {
		return 128 + int(s.Signal)
	}
	return s.ExitCode
}
