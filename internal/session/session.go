package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ptykit/ptyrun/internal/infrastructure/config"
	"github.com/ptykit/ptyrun/internal/infrastructure/logging"
	"github.com/ptykit/ptyrun/internal/pty"
	"github.com/ptykit/ptyrun/internal/shared/id"
	"github.com/ptykit/ptyrun/internal/shuttle"
	"github.com/ptykit/ptyrun/internal/tty"
	"github.com/ptykit/ptyrun/internal/vt"
	"github.com/ptykit/ptyrun/internal/winch"
)

// Exit codes for sessions that end before the child can report its own.
const (
	// ExitFailure is reported when the pty pair cannot be allocated.
	ExitFailure = 1
	// ExitSpawnFailure is reported when the child cannot be started,
	// mirroring the shell convention for commands that cannot run.
	ExitSpawnFailure = 127
)

// Terminal abstracts the local endpoint: its mode, its geometry, and
// whether a terminal is attached at all.
type Terminal interface {
	// MakeRaw switches the endpoint to raw passthrough and returns the
	// thunk that undoes it. ok is false when the endpoint is not a
	// terminal; the session then proceeds without raw mode.
	MakeRaw() (restore func() error, ok bool)

	// Geometry reports the endpoint's current size, or a fallback when
	// no terminal is attached.
	Geometry() (rows, cols uint16)

	// IsTerminal reports whether the input endpoint is a terminal.
	IsTerminal() bool
}

// StartFunc spawns argv attached to a fresh pty sized rows by cols.
type StartFunc func(argv []string, rows, cols uint16, log *logging.Logger) (pty.Controller, pty.Child, error)

// readDeadliner lets the supervisor poke a blocked read loose. Files
// and terminals satisfy it through the runtime poller.
type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// Supervisor drives one session from spawn to exit-status translation.
type Supervisor struct {
	cfg    *config.Config
	log    *logging.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	start  StartFunc
	term   Terminal
}

// Option customizes a Supervisor.
type Option func(*Supervisor)

// WithStdio replaces the process's standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(s *Supervisor) {
		s.stdin = stdin
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithStarter replaces the pty spawn function.
func WithStarter(start StartFunc) Option {
	return func(s *Supervisor) { s.start = start }
}

// WithTerminal replaces the local endpoint.
func WithTerminal(term Terminal) Option {
	return func(s *Supervisor) { s.term = term }
}

// New builds a Supervisor over the process's standard streams.
func New(cfg *config.Config, log *logging.Logger, opts ...Option) *Supervisor {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NewNop()
	}
	s := &Supervisor{
		cfg:    cfg,
		log:    log,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		start:  pty.Start,
		term: &stdioTerminal{
			fallbackRows: cfg.Terminal.FallbackRows,
			fallbackCols: cfg.Terminal.FallbackCols,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes argv inside a pseudo-terminal session and returns the
// exit code this process should report: the child's own code, 128 plus
// the signal number when the child was killed, ExitSpawnFailure when
// the child never started, or ExitFailure when no pty was available.
// Cancelling ctx kills the child; the session still drains both relays
// and restores the terminal before returning.
func (s *Supervisor) Run(ctx context.Context, argv []string) int {
	if len(argv) == 0 {
		fmt.Fprintln(s.stderr, "ptyrun: no command given")
		return ExitFailure
	}

	log := s.log.With(zap.String("session_id", id.NewSessionID().String()))
	log.Debug("starting session",
		zap.String("state", string(StateInitializing)),
		zap.Strings("argv", argv),
	)

	rows, cols := s.term.Geometry()
	ctrl, child, err := s.start(argv, rows, cols, log)
	if err != nil {
		log.Error("session start failed", zap.Error(err))
		fmt.Fprintf(s.stderr, "ptyrun: %v\n", err)
		if errors.Is(err, pty.ErrSpawn) {
			return ExitSpawnFailure
		}
		return ExitFailure
	}

	// Raw mode waits until the child is live, so a failed spawn leaves
	// the invoker's terminal untouched.
	restore, rawOK := s.term.MakeRaw()
	var restoreOnce sync.Once
	restoreTerminal := func() {
		if !rawOK {
			return
		}
		restoreOnce.Do(func() {
			if err := restore(); err != nil {
				log.Warn("terminal restore failed", zap.Error(err))
			}
		})
	}
	defer restoreTerminal()

	// Without a terminal behind the local endpoint, status queries from
	// the child would otherwise go unanswered forever.
	var answerer *vt.Answerer
	var tap shuttle.Tap
	if s.headless() {
		answerer = vt.NewAnswerer(ctrl, log)
		tap = answerer
	}

	bufSize := s.cfg.Terminal.ReadBuffer

	outDone := make(chan error, 1)
	go func() {
		outDone <- shuttle.Output(s.stdout, ctrl, tap, bufSize)
	}()

	pumpCtx, stopPumps := context.WithCancel(ctx)
	defer stopPumps()
	inDone := make(chan error, 1)
	go func() {
		inDone <- shuttle.Input(pumpCtx, ctrl, s.stdin, s.pacer(), bufSize)
	}()

	prop := winch.New(ctrl, s.term.Geometry, log)
	prop.Prime(rows, cols)
	go prop.Watch(pumpCtx)

	waitCh := make(chan pty.Status, 1)
	go func() { waitCh <- child.Wait() }()

	log.Debug("session running",
		zap.String("state", string(StateRunning)),
		zap.Uint16("rows", rows),
		zap.Uint16("cols", cols),
	)

	// Child exit is the one terminal event. Output may run dry first
	// when the subordinate side vanishes; note it and keep waiting.
	// Local input running dry is no event at all.
	var st pty.Status
	outDrained := false
	cancelled := ctx.Done()
running:
	for {
		select {
		case st = <-waitCh:
			break running
		case <-outDone:
			outDrained = true
		case <-cancelled:
			cancelled = nil
			log.Debug("context cancelled, killing child")
			if err := child.Kill(); err != nil {
				log.Debug("kill failed", zap.Error(err))
			}
		}
	}

	log.Debug("session draining", zap.String("state", string(StateDraining)))

	// Closing the controller forces the output relay to observe end of
	// stream once the already-buffered output is delivered.
	if err := ctrl.Close(); err != nil {
		log.Debug("controller close", zap.Error(err))
	}
	if !outDrained {
		select {
		case <-outDone:
		case <-time.After(time.Duration(s.cfg.Shutdown.DrainTimeout)):
			log.Debug("output relay did not drain in time")
		}
	}

	// The input relay has no cancellation point inside a blocked read;
	// an immediate deadline forces the read to return.
	stopPumps()
	if rd, ok := s.stdin.(readDeadliner); ok {
		_ = rd.SetReadDeadline(time.Now())
	}
	select {
	case <-inDone:
	case <-time.After(time.Duration(s.cfg.Shutdown.InputTimeout)):
		log.Debug("input relay did not stop in time")
	}
	if rd, ok := s.stdin.(readDeadliner); ok {
		_ = rd.SetReadDeadline(time.Time{})
	}

	restoreTerminal()

	fields := []zap.Field{
		zap.String("state", string(StateTerminated)),
		zap.Int("exit_code", st.Code()),
	}
	if answerer != nil {
		fields = append(fields, zap.Int("queries_answered", answerer.Answered()))
	}
	log.Debug("session terminated", fields...)

	s.report(st)
	return st.Code()
}

// report writes the single diagnostic line describing how the child
// ended. It goes to the error stream after the terminal is restored, so
// it is never mistaken for session output.
func (s *Supervisor) report(st pty.Status) {
	if st.Signaled {
		fmt.Fprintf(s.stderr, "\n[ptyrun: child killed by signal %d (%s)]\n",
			int(st.Signal), st.SignalName())
		return
	}
	fmt.Fprintf(s.stderr, "\n[ptyrun: child exited with status %d]\n", st.ExitCode)
}

// headless reports whether the session answers status queries on behalf
// of a missing terminal. With a real terminal attached, the operator's
// terminal answers them itself and a second answer would corrupt what
// the child reads back.
func (s *Supervisor) headless() bool {
	switch s.cfg.Terminal.Headless {
	case config.HeadlessOn:
		return true
	case config.HeadlessOff:
		return false
	default:
		return !s.term.IsTerminal()
	}
}

// pacer picks the input write policy. Interactive keystrokes arrive
// with natural gaps and pass through whole; replayed streams are paced
// byte by byte so a lone escape reads as a keypress, optionally under a
// byte-rate throttle.
func (s *Supervisor) pacer() shuttle.Pacer {
	if s.term.IsTerminal() {
		return shuttle.Passthrough{}
	}
	r := shuttle.Replay{EscapeDelay: time.Duration(s.cfg.Input.EscapeDelay)}
	if s.cfg.Input.ReplayRate > 0 {
		r.Limiter = rate.NewLimiter(rate.Limit(s.cfg.Input.ReplayRate), s.cfg.Input.ReplayBurst)
	}
	return r
}

// stdioTerminal is the production Terminal, backed by the process's
// own stdin.
type stdioTerminal struct {
	fallbackRows uint16
	fallbackCols uint16
}

func (t *stdioTerminal) MakeRaw() (func() error, bool) {
	snap, ok := tty.MakeRaw(int(os.Stdin.Fd()))
	if !ok {
		return nil, false
	}
	return snap.Restore, true
}

func (t *stdioTerminal) Geometry() (rows, cols uint16) {
	return tty.Geometry(int(os.Stdin.Fd()), t.fallbackRows, t.fallbackCols)
}

func (t *stdioTerminal) IsTerminal() bool {
	return tty.IsTerminal(int(os.Stdin.Fd()))
}
