// Package testutil provides shared fakes for exercising sessions
// without real terminals or child processes.
package testutil

import (
	"bytes"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/ptykit/ptyrun/internal/pty"
)

// FakeController simulates the controller side of a pseudo-terminal
// with an in-memory pipe. Tests feed child output through Emit and EOF,
// and inspect what the session wrote toward the child with Written.
type FakeController struct {
	outR *io.PipeReader
	outW *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	resizes [][2]uint16
	closed  bool
}

// NewFakeController returns an open fake controller.
func NewFakeController() *FakeController {
	r, w := io.Pipe()
	return &FakeController{outR: r, outW: w}
}

// Emit makes child output available to the session's output relay.
func (f *FakeController) Emit(s string) {
	_, _ = f.outW.Write([]byte(s))
}

// EOF ends the child output stream, the way a vanished subordinate
// side would.
func (f *FakeController) EOF() {
	_ = f.outW.Close()
}

// Read implements pty.Controller.
func (f *FakeController) Read(p []byte) (int, error) {
	return f.outR.Read(p)
}

// Write implements pty.Controller, recording bytes headed to the child.
func (f *FakeController) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, io.ErrClosedPipe
	}
	return f.written.Write(p)
}

// Resize implements pty.Controller, recording each propagated geometry.
func (f *FakeController) Resize(rows, cols uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes = append(f.resizes, [2]uint16{rows, cols})
	return nil
}

// Close implements pty.Controller. Pending and future reads fail, as
// they do on a real closed controller descriptor.
func (f *FakeController) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return io.ErrClosedPipe
	}
	f.closed = true
	f.mu.Unlock()

	_ = f.outW.Close()
	return f.outR.Close()
}

// Written returns a copy of everything the session wrote to the child:
// relayed input and injected query replies.
func (f *FakeController) Written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.written.Bytes()...)
}

// Resizes returns the geometries propagated so far, in order.
func (f *FakeController) Resizes() [][2]uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]uint16(nil), f.resizes...)
}

// FakeChild is a wait handle whose exit the test triggers.
type FakeChild struct {
	exit     chan pty.Status
	killed   chan struct{}
	killOnce sync.Once
}

// NewFakeChild returns a child that has not exited yet.
func NewFakeChild() *FakeChild {
	return &FakeChild{
		exit:   make(chan pty.Status, 1),
		killed: make(chan struct{}),
	}
}

// Exit delivers the child's terminal status to whoever waits.
func (c *FakeChild) Exit(st pty.Status) {
	c.exit <- st
}

// Wait implements pty.Child.
func (c *FakeChild) Wait() pty.Status {
	return <-c.exit
}

// Kill implements pty.Child.
func (c *FakeChild) Kill() error {
	c.killOnce.Do(func() { close(c.killed) })
	return nil
}

// Killed reports whether Kill was called.
func (c *FakeChild) Killed() bool {
	select {
	case <-c.killed:
		return true
	default:
		return false
	}
}

// FakeTerminal scripts the local endpoint's mode and geometry answers.
type FakeTerminal struct {
	TTY   bool
	RawOK bool
	Rows  uint16
	Cols  uint16

	mu       sync.Mutex
	restores int
}

// MakeRaw hands out a restore thunk when RawOK is set.
func (f *FakeTerminal) MakeRaw() (func() error, bool) {
	if !f.RawOK {
		return nil, false
	}
	return func() error {
		f.mu.Lock()
		f.restores++
		f.mu.Unlock()
		return nil
	}, true
}

// Geometry returns the scripted size.
func (f *FakeTerminal) Geometry() (rows, cols uint16) {
	return f.Rows, f.Cols
}

// IsTerminal reports the scripted terminal-ness of stdin.
func (f *FakeTerminal) IsTerminal() bool {
	return f.TTY
}

// Restores reports how many times the restore thunk ran.
func (f *FakeTerminal) Restores() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.restores
}

// MockResizer is a testify mock for geometry propagation targets.
type MockResizer struct {
	mock.Mock
}

// Resize records the propagated geometry.
func (m *MockResizer) Resize(rows, cols uint16) error {
	args := m.Called(rows, cols)
	return args.Error(0)
}
