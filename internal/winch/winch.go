// Package winch keeps the pseudo-terminal's geometry in step with the
// local terminal. Geometry flows one way, local terminal to child, and
// duplicate sizes are suppressed so a burst of signals for the same
// size costs at most one resize.
package winch

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ptykit/ptyrun/internal/infrastructure/logging"
)

// Resizer receives propagated geometry. Pty controllers implement it.
type Resizer interface {
	Resize(rows, cols uint16) error
}

// Propagator forwards local geometry changes to a resizer.
type Propagator struct {
	target Resizer
	size   func() (rows, cols uint16)
	log    *logging.Logger

	mu   sync.Mutex
	rows uint16
	cols uint16
}

// New builds a propagator that reads the local geometry from size and
// forwards changes to target.
func New(target Resizer, size func() (rows, cols uint16), log *logging.Logger) *Propagator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Propagator{target: target, size: size, log: log}
}

// Prime records the geometry the session started with, so the first
// signal reporting that same size is suppressed.
func (p *Propagator) Prime(rows, cols uint16) {
	p.mu.Lock()
	p.rows, p.cols = rows, cols
	p.mu.Unlock()
}

// Propagate reads the current local geometry and forwards it when it
// differs from the last size seen. Failures are logged and swallowed: a
// missed resize degrades rendering, not the session.
func (p *Propagator) Propagate() {
	rows, cols := p.size()

	p.mu.Lock()
	if rows == p.rows && cols == p.cols {
		p.mu.Unlock()
		return
	}
	p.rows, p.cols = rows, cols
	p.mu.Unlock()

	if err := p.target.Resize(rows, cols); err != nil {
		p.log.Debug("resize propagation failed", zap.Error(err))
		return
	}
	p.log.Debug("propagated resize",
		zap.Uint16("rows", rows),
		zap.Uint16("cols", cols),
	)
}
