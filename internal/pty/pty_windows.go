//go:build windows

package pty

import (
	"fmt"

	"github.com/ptykit/ptyrun/internal/infrastructure/logging"
)

// Start is unavailable here: the engine drives Unix pseudo-terminals
// only. A ConPTY-backed adapter would slot in behind the same
// interfaces.
func Start(argv []string, rows, cols uint16, log *logging.Logger) (Controller, Child, error) {
	return nil, nil, ErrUnsupported
}

// SignalName formats the signal number; there is no name table here.
func (s Status) SignalName() string {
	return fmt.Sprintf("signal %d", int(s.Signal))
}
