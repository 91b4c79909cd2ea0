//go:build !windows

package pty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	ptylib "github.com/creack/pty"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/ptykit/ptyrun/internal/infrastructure/logging"
)

// Start allocates a pseudo-terminal pair, spawns argv attached to its
// subordinate side, and hands back the controller plus the child's wait
// handle. The subordinate descriptor is closed here as soon as the
// child holds it.
func Start(argv []string, rows, cols uint16, log *logging.Logger) (Controller, Child, error) {
	if log == nil {
		log = logging.NewNop()
	}

	ctrl, tty, err := ptylib.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}

	if err := ptylib.Setsize(ctrl, &ptylib.Winsize{Rows: rows, Cols: cols}); err != nil {
		ctrl.Close()
		tty.Close()
		return nil, nil, fmt.Errorf("%w: set initial size: %w", ErrAllocation, err)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = os.Environ()
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	// Fresh session, with the subordinate as controlling terminal. Ctty
	// is the child's fd 0, which the std wiring above points at the tty.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	if err := cmd.Start(); err != nil {
		ctrl.Close()
		tty.Close()
		return nil, nil, fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	tty.Close()

	endpoint := uuid.New().String()
	log.Debug("pty allocated",
		zap.String("endpoint", endpoint),
		zap.String("tty", tty.Name()),
		zap.Int("pid", cmd.Process.Pid),
		zap.Uint16("rows", rows),
		zap.Uint16("cols", cols),
	)

	return &controller{f: ctrl, endpoint: endpoint}, &child{cmd: cmd}, nil
}

type controller struct {
	f        *os.File
	endpoint string
}

func (c *controller) Read(p []byte) (int, error) {
	n, err := c.f.Read(p)
	if errors.Is(err, unix.EIO) {
		// Linux reports EIO from a controller whose subordinate side is
		// gone; callers treat it as a clean end of stream.
		return n, io.EOF
	}
	return n, err
}

func (c *controller) Write(p []byte) (int, error) { return c.f.Write(p) }

func (c *controller) Resize(rows, cols uint16) error {
	return ptylib.Setsize(c.f, &ptylib.Winsize{Rows: rows, Cols: cols})
}

func (c *controller) Close() error { return c.f.Close() }

type child struct {
	cmd *exec.Cmd
}

func (c *child) Wait() Status {
	err := c.cmd.Wait()
	if err == nil {
		return Status{}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return Status{Signal: ws.Signal(), Signaled: true}
		}
		return Status{ExitCode: exitErr.ExitCode()}
	}

	// Wait itself failed; report a generic failure code.
	return Status{ExitCode: 1}
}

func (c *child) Kill() error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Kill()
}

// SignalName names a signal the way the kernel headers do, e.g. SIGTERM.
func (s Status) SignalName() string {
	if name := unix.SignalName(s.Signal); name != "" {
		return name
	}
	return fmt.Sprintf("signal %d", int(s.Signal))
}
