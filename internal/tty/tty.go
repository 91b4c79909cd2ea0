// Package tty controls the discipline and geometry of the local
// terminal endpoints. It deals only in file descriptors; whether those
// descriptors are terminals at all is a runtime question, and every
// operation degrades quietly when they are not.
package tty

import (
	"golang.org/x/term"
)

// Snapshot remembers the discipline a descriptor had before a raw-mode
// switch so it can be reinstated at session end.
type Snapshot struct {
	fd    int
	state *term.State
}

// MakeRaw switches fd into raw mode and returns a snapshot of the prior
// discipline. ok is false when fd is not a terminal or the switch
// failed; the session then runs with the endpoint's existing discipline
// and there is nothing to restore.
func MakeRaw(fd int) (snap *Snapshot, ok bool) {
	if !term.IsTerminal(fd) {
		return nil, false
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, false
	}
	return &Snapshot{fd: fd, state: state}, true
}

// Restore reinstates the remembered discipline. A nil snapshot is a
// no-op, so callers may restore unconditionally on every exit path.
func (s *Snapshot) Restore() error {
	if s == nil {
		return nil
	}
	return term.Restore(s.fd, s.state)
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// Geometry returns the size of the terminal behind fd. When fd has no
// readable size the fallback geometry is returned instead.
func Geometry(fd int, fallbackRows, fallbackCols uint16) (rows, cols uint16) {
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return fallbackRows, fallbackCols
	}
	return uint16(h), uint16(w)
}
