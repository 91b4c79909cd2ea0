// Package shuttle moves bytes between the local endpoints and the pty
// controller, one relay per direction. Relays share nothing: each owns
// its transfer buffer, and the two directions touch the controller with
// different operations, so no locking sits on the data path.
package shuttle

import (
	"context"
	"io"
)

// DefaultBufferSize applies when a caller passes no explicit size.
const DefaultBufferSize = 4096

// Tap observes chunks of child output before they are forwarded. The
// chunk must not be modified or retained.
type Tap interface {
	Scan(p []byte)
}

// Output drains the child's output into dst, feeding every chunk
// through tap first. It returns the read error that ended the stream;
// io.EOF means the child's side is gone, which is the normal way for a
// session to wind down.
func Output(dst io.Writer, src io.Reader, tap Tap, bufSize int) error {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	buf := make([]byte, bufSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if tap != nil {
				tap.Scan(buf[:n])
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			return err
		}
	}
}

// Input relays local input into dst until src is exhausted, a write
// fails, or ctx is canceled between reads. Local end-of-input is not a
// session event: the caller keeps the session alive for output and
// child exit.
func Input(ctx context.Context, dst io.Writer, src io.Reader, pacer Pacer, bufSize int) error {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	buf := make([]byte, bufSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.Read(buf)
		if n > 0 {
			if werr := pacer.Write(ctx, dst, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			return err
		}
	}
}
