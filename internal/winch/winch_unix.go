//go:build !windows

package winch

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Watch propagates geometry on every SIGWINCH until ctx ends. It
// blocks; run it on its own goroutine.
func (p *Propagator) Watch(ctx context.Context) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			p.Propagate()
		}
	}
}
