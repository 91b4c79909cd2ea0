//go:build windows

package winch

import (
	"context"
	"time"
)

// watchInterval is how often geometry is polled where no resize signal
// exists.
const watchInterval = time.Second

// Watch polls geometry until ctx ends; duplicate suppression keeps the
// idle polls free. It blocks; run it on its own goroutine.
func (p *Propagator) Watch(ctx context.Context) {
	t := time.NewTicker(watchInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.Propagate()
		}
	}
}
