package shuttle

import (
	"context"
	"io"
	"time"

	"golang.org/x/time/rate"
)

const escByte = 0x1b

// Pacer delivers input chunks to the child's endpoint. Pacing may alter
// delivery timing only, never content or order.
type Pacer interface {
	Write(ctx context.Context, dst io.Writer, p []byte) error
}

// Passthrough forwards chunks exactly as read. It is the pacing for
// interactive input, where the typist already sets the tempo.
type Passthrough struct{}

// Write implements Pacer.
func (Passthrough) Write(_ context.Context, dst io.Writer, p []byte) error {
	_, err := dst.Write(p)
	return err
}

// Replay feeds bytes one at a time, the way a terminal delivers
// keystrokes. Piped input arrives in large chunks; carving them up
// keeps children that poll between keys honest. After an ESC byte the
// pacer pauses so the child's reader does not fold the escape into the
// bytes that follow it.
type Replay struct {
	// EscapeDelay is the pause after each ESC byte. Zero disables it.
	EscapeDelay time.Duration

	// Limiter throttles delivery in bytes per second. Nil disables
	// throttling.
	Limiter *rate.Limiter
}

// Write implements Pacer.
func (r Replay) Write(ctx context.Context, dst io.Writer, p []byte) error {
	var one [1]byte
	for _, b := range p {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return err
			}
		}
		one[0] = b
		if _, err := dst.Write(one[:]); err != nil {
			return err
		}
		if b == escByte && r.EscapeDelay > 0 {
			select {
			case <-time.After(r.EscapeDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
