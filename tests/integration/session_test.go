//go:build integration && !windows
// +build integration,!windows

package integration

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptykit/ptyrun/internal/infrastructure/config"
	"github.com/ptykit/ptyrun/internal/session"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Shutdown.DrainTimeout = config.Duration(2 * time.Second)
	cfg.Shutdown.InputTimeout = config.Duration(2 * time.Second)
	return cfg
}

// runSession executes argv in a real pty session, skipping the test on
// hosts without /bin/sh or a usable /dev/ptmx.
func runSession(t *testing.T, cfg *config.Config, stdin io.Reader, argv ...string) (int, string, string) {
	t.Helper()

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh on this host")
	}

	var stdout, stderr bytes.Buffer
	sup := session.New(cfg, nil, session.WithStdio(stdin, &stdout, &stderr))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	code := sup.Run(ctx, argv)
	if code == session.ExitFailure && strings.Contains(stderr.String(), "pty allocation") {
		t.Skip("pty allocation unavailable in this environment")
	}
	return code, stdout.String(), stderr.String()
}

func TestSessionEchoHello(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	code, stdout, stderr := runSession(t, testConfig(), strings.NewReader(""),
		"/bin/sh", "-c", "echo hello")

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "hello")
	assert.Contains(t, stderr, "[ptyrun: child exited with status 0]")
}

func TestSessionReportsExitStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	code, _, stderr := runSession(t, testConfig(), strings.NewReader(""),
		"/bin/sh", "-c", "exit 3")

	require.Equal(t, 3, code)
	assert.Contains(t, stderr, "[ptyrun: child exited with status 3]")
}

func TestSessionEncodesSignalDeath(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	code, _, stderr := runSession(t, testConfig(), strings.NewReader(""),
		"/bin/sh", "-c", "kill -TERM $$")

	require.Equal(t, 143, code)
	assert.Contains(t, stderr, "child killed by signal 15")
}

func TestSessionRelaysStdinToChild(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	code, stdout, _ := runSession(t, testConfig(), strings.NewReader("marco\n"),
		"/bin/sh", "-c", `read line; echo "got $line"`)

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "got marco")
}

func TestSessionChildSeesRealTerminal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	code, stdout, _ := runSession(t, testConfig(), strings.NewReader(""),
		"/bin/sh", "-c", "test -t 0 && test -t 1 && echo ISATTY")

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "ISATTY")
}

func TestSessionMergesChildStderr(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// All three child std streams share the subordinate side, so child
	// stderr arrives on the session's output stream.
	code, stdout, _ := runSession(t, testConfig(), strings.NewReader(""),
		"/bin/sh", "-c", "echo oops 1>&2")

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "oops")
}

func TestSessionAnswersCursorQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := testConfig()
	cfg.Terminal.Headless = config.HeadlessOn

	// The injected reply lands on the child's input and the subordinate
	// echoes it, so it shows up in session output: raw, or as ^[[1;1R
	// under ECHOCTL. Either way the tail is stable.
	code, stdout, _ := runSession(t, cfg, strings.NewReader(""),
		"/bin/sh", "-c", `printf '\033[6n'; sleep 1`)

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "[1;1R")
}

func TestSessionCancelKillsChild(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh on this host")
	}

	var stdout, stderr bytes.Buffer
	sup := session.New(testConfig(), nil, session.WithStdio(strings.NewReader(""), &stdout, &stderr))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	code := sup.Run(ctx, []string{"/bin/sh", "-c", "sleep 30"})
	if code == session.ExitFailure && strings.Contains(stderr.String(), "pty allocation") {
		t.Skip("pty allocation unavailable in this environment")
	}

	require.Equal(t, 137, code)
	assert.Contains(t, stderr.String(), "child killed by signal 9")
	assert.Less(t, time.Since(start), 10*time.Second)
}
